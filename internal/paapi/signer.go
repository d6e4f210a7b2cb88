package paapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	serviceName     = "ProductAdvertisingAPI"
	searchItemsPath = "/paapi5/searchitems"
	searchTarget    = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.SearchItems"
	contentEncoding = "amz-1.0"
	contentType     = "application/json; charset=utf-8"
	signedHeaders   = "content-encoding;content-type;host;x-amz-date;x-amz-target"
	algorithm       = "AWS4-HMAC-SHA256"
	amzDateLayout   = "20060102T150405Z"
)

// Credentials identify the PA-API caller for signing.
type Credentials struct {
	AccessKey string
	SecretKey string
	Region    string
}

// SignedHeaders computes the AWS Signature Version 4 headers for a PA-API
// request body. The result is fully determined by its inputs; now supplies
// the request timestamp.
func SignedHeaders(method, path, host, target string, body []byte, creds Credentials, now time.Time) map[string]string {
	amzDate := now.UTC().Format(amzDateLayout)
	dateStamp := amzDate[:8]

	canonicalHeaders := strings.Join([]string{
		"content-encoding:" + contentEncoding,
		"content-type:" + contentType,
		"host:" + host,
		"x-amz-date:" + amzDate,
		"x-amz-target:" + target,
	}, "\n") + "\n"

	payloadHash := sha256Hex(body)
	canonicalRequest := strings.Join([]string{
		method,
		path,
		"", // no query string
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	scope := strings.Join([]string{dateStamp, creds.Region, serviceName, "aws4_request"}, "/")
	stringToSign := strings.Join([]string{
		algorithm,
		amzDate,
		scope,
		sha256Hex([]byte(canonicalRequest)),
	}, "\n")

	signingKey := deriveKey(creds.SecretKey, dateStamp, creds.Region)
	signature := hex.EncodeToString(hmacSHA256(signingKey, stringToSign))

	return map[string]string{
		"Content-Encoding": contentEncoding,
		"Content-Type":     contentType,
		"Host":             host,
		"X-Amz-Date":       amzDate,
		"X-Amz-Target":     target,
		"Authorization": fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
			algorithm, creds.AccessKey, scope, signedHeaders, signature),
	}
}

// deriveKey walks the SigV4 key derivation chain from the secret key through
// date, region, and service.
func deriveKey(secretKey, dateStamp, region string) []byte {
	key := hmacSHA256([]byte("AWS4"+secretKey), dateStamp)
	key = hmacSHA256(key, region)
	key = hmacSHA256(key, serviceName)
	return hmacSHA256(key, "aws4_request")
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
