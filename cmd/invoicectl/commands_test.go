package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/config"
	"invoicer/internal/service"
)

const orderJSON = `{
	"name": "#PG1229",
	"created_at": "2025-12-29T09:54:05+05:30",
	"currency": "INR",
	"shipping_address": {"name": "Asha Rao", "province": "Punjab"},
	"line_items": [
		{"title": "Linen Shirt", "price": "2590.00", "quantity": 2, "sku": "HSN6205-LS"}
	],
	"current_total_price": "5180.00"
}`

func writeOrder(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "order.json")
	require.NoError(t, os.WriteFile(path, []byte(orderJSON), 0o600))
	return path
}

func runApp(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err = app.Run(append([]string{"invoicectl"}, args...))
	return out.String(), errOut.String(), err
}

func TestTransform_JSON(t *testing.T) {
	out, _, err := runApp(t, "transform", "--in", writeOrder(t), "--seller", "Punjab")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "intrastate", doc["regime"])
	assert.Len(t, doc["lineItems"], 2)
}

func TestTransform_CSV(t *testing.T) {
	out, _, err := runApp(t, "transform", "--in", writeOrder(t), "--seller", "Karnataka", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Order,"))
	assert.Contains(t, lines[1], "interstate")
}

func TestTransform_UnknownFormat(t *testing.T) {
	_, _, err := runApp(t, "transform", "--in", writeOrder(t), "--format", "xml")
	assert.Error(t, err)
}

func TestTransform_MissingLineItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"#1"}`), 0o600))

	_, _, err := runApp(t, "transform", "--in", path)
	assert.Error(t, err)
}

func TestRender_WritesPDF(t *testing.T) {
	t.Setenv("INVOICER_LOG_LEVEL", "error")
	out := filepath.Join(t.TempDir(), "invoice.pdf")

	_, _, err := runApp(t, "render", "--in", writeOrder(t), "--seller", "Punjab", "--out", out, "--assets", t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestState(t *testing.T) {
	out, _, err := runApp(t, "state", "--seller", "Punjab", "karnataka")
	require.NoError(t, err)
	assert.Contains(t, out, "code:\t29")
	assert.Contains(t, out, "regime:\tinterstate")

	out, _, err = runApp(t, "state", "--seller", "Punjab", " PUNJAB ")
	require.NoError(t, err)
	assert.Contains(t, out, "regime:\tintrastate")

	_, _, err = runApp(t, "state")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	t.Setenv("INVOICER_JWT_SECRET", "cli-secret")
	t.Setenv("INVOICER_JWT_ISSUER", "invoicer")

	out, _, err := runApp(t, "token", "--shop", "PG.myshopify.com", "--ttl", "2h")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "expires:"))

	claims, err := service.NewTokenService(config.JWTConfig{Secret: "cli-secret", Issuer: "invoicer"}).ValidateToken(lines[0])
	require.NoError(t, err)
	assert.Equal(t, "pg.myshopify.com", claims.Shop)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestToken_RequiresShop(t *testing.T) {
	_, _, err := runApp(t, "token")
	assert.Error(t, err)
}
