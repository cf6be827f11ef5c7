package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// ControllerURL is the link a phone opens to steer a session's boat
func ControllerURL(r *http.Request, sessionID string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     "/" + sessionID,
		RawQuery: "c=1",
	}
	return u.String()
}

// ControllerQR renders the controller link as a PNG
func ControllerQR(link string) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
