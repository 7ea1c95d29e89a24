package gatewayclient

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// ServiceName is the SigV4 signing namespace of AgentCore gateways.
const ServiceName = "bedrock-agentcore"

// SigV4Transport signs every request with AWS Signature Version 4 before
// handing it to Next.
type SigV4Transport struct {
	Credentials aws.CredentialsProvider
	Region      string

	// Service defaults to ServiceName.
	Service string

	// Next defaults to http.DefaultTransport.
	Next http.RoundTripper

	signerOnce sync.Once
	signer     *v4.Signer
	now        func() time.Time
}

// NewSigV4Transport returns a transport signing for the gateway service in region.
func NewSigV4Transport(creds aws.CredentialsProvider, region string, next http.RoundTripper) *SigV4Transport {
	return &SigV4Transport{
		Credentials: creds,
		Region:      region,
		Service:     ServiceName,
		Next:        next,
	}
}

// RoundTrip implements http.RoundTripper. The caller's request is not modified.
func (t *SigV4Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
	}

	signed := req.Clone(ctx)
	signed.ContentLength = int64(len(body))
	if len(body) == 0 {
		signed.Body = http.NoBody
		signed.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
	} else {
		signed.Body = io.NopCloser(bytes.NewReader(body))
		signed.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	creds, err := t.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieving AWS credentials: %w", err)
	}

	sum := sha256.Sum256(body)
	if err := t.getSigner().SignHTTP(ctx, creds, signed, hex.EncodeToString(sum[:]), t.service(), t.Region, t.clock()); err != nil {
		return nil, fmt.Errorf("signing request: %w", err)
	}

	return t.next().RoundTrip(signed)
}

// getSigner is safe for the concurrent requests of an MCP session.
func (t *SigV4Transport) getSigner() *v4.Signer {
	t.signerOnce.Do(func() {
		if t.signer == nil {
			t.signer = v4.NewSigner()
		}
	})
	return t.signer
}

func (t *SigV4Transport) service() string {
	if t.Service == "" {
		return ServiceName
	}
	return t.Service
}

func (t *SigV4Transport) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

func (t *SigV4Transport) next() http.RoundTripper {
	if t.Next != nil {
		return t.Next
	}
	return http.DefaultTransport
}

// NewHTTPClient returns an HTTP client that signs requests with the
// credentials of cfg for region.
func NewHTTPClient(cfg aws.Config, region string) *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: NewSigV4Transport(cfg.Credentials, region, nil),
	}
}
