// Command lambda serves the invoice API behind API Gateway.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"invoicer/internal/config"
	"invoicer/internal/logger"
	"invoicer/internal/server"
)

var (
	ginLambda *ginadapter.GinLambda
	zl        *zap.Logger
)

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// Lambda invocations are short-lived; webhooks are always handled inline.
	cfg.Shopify.Async = false

	zl, err = logger.Init(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	srv, err := server.New(context.Background(), cfg, zl)
	if err != nil {
		zl.Fatal("failed to build server", zap.Error(err))
	}
	ginLambda = ginadapter.New(srv.Engine)
}

// Handler proxies an API Gateway request to the gin engine.
func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if ce := zl.Check(zap.DebugLevel, "received lambda request"); ce != nil {
		ce.Write(zap.String("path", req.Path), zap.String("request", spew.Sdump(req)))
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	defer zl.Sync() //nolint:errcheck
	lambda.Start(Handler)
}
