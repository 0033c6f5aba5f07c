// Package gst holds the jurisdiction table and the tax-regime rules of Indian GST.
package gst

import "strings"

// UnknownStateCode is returned for names missing from the state table.
const UnknownStateCode = "00"

// stateCodes maps GST portal state names to their two-digit codes.
var stateCodes = map[string]string{
	"Andaman and Nicobar Islands":              "35",
	"Andhra Pradesh":                           "37",
	"Arunachal Pradesh":                        "12",
	"Assam":                                    "18",
	"Bihar":                                    "10",
	"Chandigarh":                               "04",
	"Chhattisgarh":                             "22",
	"Dadra and Nagar Haveli and Daman and Diu": "26",
	"Delhi":                                    "07",
	"Goa":                                      "30",
	"Gujarat":                                  "24",
	"Haryana":                                  "06",
	"Himachal Pradesh":                         "02",
	"Jammu and Kashmir":                        "01",
	"Jharkhand":                                "20",
	"Karnataka":                                "29",
	"Kerala":                                   "32",
	"Ladakh":                                   "38",
	"Lakshadweep":                              "31",
	"Madhya Pradesh":                           "23",
	"Maharashtra":                              "27",
	"Manipur":                                  "14",
	"Meghalaya":                                "17",
	"Mizoram":                                  "15",
	"Nagaland":                                 "13",
	"Odisha":                                   "21",
	"Puducherry":                               "34",
	"Punjab":                                   "03",
	"Rajasthan":                                "08",
	"Sikkim":                                   "11",
	"Tamil Nadu":                               "33",
	"Telangana":                                "36",
	"Tripura":                                  "16",
	"Uttar Pradesh":                            "09",
	"Uttarakhand":                              "05",
	"West Bengal":                              "19",
}

// byFoldedName and byCode are derived once from stateCodes and never written again.
var (
	byFoldedName = make(map[string]string, len(stateCodes))
	byCode       = make(map[string]string, len(stateCodes))
)

func init() {
	for name, code := range stateCodes {
		byFoldedName[strings.ToLower(name)] = code
		byCode[code] = name
	}
}

// ResolveStateCode returns the two-digit GST code for a state or union
// territory name. Matching ignores surrounding whitespace and case. Empty or
// unknown names resolve to UnknownStateCode.
func ResolveStateCode(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return UnknownStateCode
	}
	if code, ok := byFoldedName[key]; ok {
		return code
	}
	return UnknownStateCode
}

// StateName returns the canonical name for a code, or "" if the code is unknown.
func StateName(code string) string {
	return byCode[code]
}

// States returns the canonical names of every entry in the table.
func States() []string {
	out := make([]string, 0, len(stateCodes))
	for name := range stateCodes {
		out = append(out, name)
	}
	return out
}
