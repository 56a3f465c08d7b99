package epay

import (
	"activityhub-backend/internal/payment"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

type Config struct {
	URL       string
	PID       string
	Key       string
	NotifyURL string
	ReturnURL string
	Channel   string // alipay, wxpay, ...
}

type EpayDriver struct {
	GatewayURL string
	PID        string
	Key        string
	NotifyURL  string
	ReturnURL  string
	Channel    string
}

func NewEpayDriver(cfg Config) (*EpayDriver, error) {
	if cfg.URL == "" || cfg.PID == "" || cfg.Key == "" {
		return nil, payment.ErrMissingConfig
	}
	// Accept either the base URL or the full submit.php URL
	baseURL := strings.TrimRight(cfg.URL, "/")
	if !strings.HasSuffix(baseURL, "submit.php") {
		baseURL += "/submit.php"
	}
	channel := cfg.Channel
	if channel == "" {
		channel = "alipay"
	}
	return &EpayDriver{
		GatewayURL: baseURL,
		PID:        cfg.PID,
		Key:        cfg.Key,
		NotifyURL:  cfg.NotifyURL,
		ReturnURL:  cfg.ReturnURL,
		Channel:    channel,
	}, nil
}

func (d *EpayDriver) Name() string {
	return "epay"
}

// CreateCheckout builds the signed jump URL. The payment id doubles as out_trade_no
// and as the session handle.
func (d *EpayDriver) CreateCheckout(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	if req.PaymentID == "" || req.AmountMinorUnits <= 0 {
		return nil, errors.New("epay: payment id and positive amount are required")
	}
	returnURL := d.ReturnURL
	if req.ReturnURL != "" {
		returnURL = req.ReturnURL
	}
	name := req.Title
	if name == "" {
		name = "Activity " + req.PaymentID
	}

	data := map[string]string{
		"pid":          d.PID,
		"type":         d.Channel,
		"out_trade_no": req.PaymentID,
		"notify_url":   d.NotifyURL,
		"return_url":   returnURL,
		"name":         name,
		"money":        payment.FormatMinorUnits(req.AmountMinorUnits),
	}

	data["sign"] = d.generateSign(data)
	data["sign_type"] = "MD5"

	q := url.Values{}
	for k, v := range data {
		q.Set(k, v)
	}

	return &payment.CheckoutSession{
		Handle: req.PaymentID,
		URL:    d.GatewayURL + "?" + q.Encode(),
	}, nil
}

// Notify verifies the callback parameters.
func (d *EpayDriver) Notify(params map[string]string) (*payment.Notification, error) {
	data := make(map[string]string, len(params))
	var remoteSign string
	for k, v := range params {
		switch k {
		case "sign":
			remoteSign = v
		case "sign_type":
		default:
			data[k] = v
		}
	}

	if remoteSign == "" || d.generateSign(data) != remoteSign {
		return nil, payment.ErrInvalidSignature
	}

	n := &payment.Notification{
		PaymentID:  data["out_trade_no"],
		ExternalID: data["trade_no"],
		Paid:       data["trade_status"] == "TRADE_SUCCESS",
		Raw:        data,
	}
	if money, ok := data["money"]; ok {
		amount, err := ParseMinorUnits(money)
		if err != nil {
			return nil, err
		}
		n.AmountMinorUnits = amount
	}
	return n, nil
}

func (d *EpayDriver) generateSign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, k := range keys {
		v := params[k]
		if v == "" || k == "sign" || k == "sign_type" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("&")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(v)
	}
	builder.WriteString(d.Key)

	hash := md5.Sum([]byte(builder.String()))
	return hex.EncodeToString(hash[:])
}

// ParseMinorUnits parses a two-decimal money string without going through float.
func ParseMinorUnits(s string) (int64, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("epay: invalid money %q", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w < 0 {
		return 0, fmt.Errorf("epay: invalid money %q", s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("epay: invalid money %q", s)
	}
	return w*100 + f, nil
}
