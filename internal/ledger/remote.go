package ledger

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// Remote proxies ledger calls to an external ledger gateway over HTTP.
// Transaction-receipt mechanics live behind that gateway; this client only
// maps its responses onto the adapter boundary. All failures surface as
// LedgerError-class domain errors.
type Remote struct {
	client  *resty.Client
	breaker *breaker
}

// NewRemote builds a remote ledger client against the given gateway base URL.
func NewRemote(baseURL string) *Remote {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Remote{client: client, breaker: newBreaker(defaultTripThreshold, defaultCooldown)}
}

// errGatewayDown is returned without touching the network while the breaker
// holds the gateway path open.
func errGatewayDown() error {
	return dErrors.New(dErrors.CodeLedgerError, "ledger gateway unavailable")
}

type deployResponse struct {
	Contract string `json:"contract"`
}

type submitRequest struct {
	Fingerprint string `json:"fingerprint"`
	Subject     string `json:"subject"`
}

type submitResponse struct {
	TxHash      string    `json:"tx_hash"`
	Contract    string    `json:"contract"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type readResponse struct {
	Exists      bool      `json:"exists"`
	Fingerprint string    `json:"fingerprint"`
	RecordID    string    `json:"record_id"`
	Issuer      string    `json:"issuer"`
	IssuedAt    time.Time `json:"issued_at"`
}

// Deploy asks the gateway to deploy the records contract.
func (r *Remote) Deploy(ctx context.Context) (ContractAddress, error) {
	if !r.breaker.allow() {
		return "", errGatewayDown()
	}

	var out deployResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&out).
		Post("/contracts")
	if err != nil {
		r.breaker.recordFailure()
		return "", dErrors.Wrap(err, dErrors.CodeLedgerError, "ledger deploy failed")
	}
	r.breaker.recordSuccess()
	if resp.IsError() {
		return "", dErrors.New(dErrors.CodeLedgerError, "ledger deploy rejected: "+resp.Status())
	}
	if out.Contract == "" {
		return "", dErrors.New(dErrors.CodeLedgerError, "ledger deploy returned no contract address")
	}
	return ContractAddress(out.Contract), nil
}

// Submit sends a wallet-signed record transaction through the gateway.
func (r *Remote) Submit(ctx context.Context, fp domain.Fingerprint, subject domain.RecordID) (Receipt, error) {
	if fp.IsNil() {
		return Receipt{}, dErrors.New(dErrors.CodeInvalidInput, "fingerprint is required")
	}
	if !r.breaker.allow() {
		return Receipt{}, errGatewayDown()
	}

	var out submitResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(submitRequest{Fingerprint: fp.String(), Subject: subject.String()}).
		SetResult(&out).
		Post("/records")
	if err != nil {
		r.breaker.recordFailure()
		return Receipt{}, dErrors.Wrap(err, dErrors.CodeLedgerError, "ledger submission failed")
	}
	r.breaker.recordSuccess()
	if resp.IsError() {
		return Receipt{}, dErrors.New(dErrors.CodeLedgerError, "ledger submission rejected: "+resp.Status())
	}
	return Receipt{
		TxHash:      out.TxHash,
		Contract:    ContractAddress(out.Contract),
		SubmittedAt: out.SubmittedAt,
	}, nil
}

// Read performs a read-only existence call against the gateway.
func (r *Remote) Read(ctx context.Context, fp domain.Fingerprint) (*Proof, error) {
	if !r.breaker.allow() {
		return nil, errGatewayDown()
	}

	var out readResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/records/" + fp.String())
	if err != nil {
		r.breaker.recordFailure()
		return nil, dErrors.Wrap(err, dErrors.CodeLedgerError, "ledger read failed")
	}
	r.breaker.recordSuccess()
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, dErrors.New(dErrors.CodeLedgerError, "ledger read rejected: "+resp.Status())
	}
	if !out.Exists {
		return nil, nil
	}
	return &Proof{
		Fingerprint: domain.Fingerprint(out.Fingerprint),
		RecordID:    domain.RecordID(out.RecordID),
		Issuer:      out.Issuer,
		IssuedAt:    out.IssuedAt,
	}, nil
}
