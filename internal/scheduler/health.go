package scheduler

import (
	"time"

	"go.uber.org/atomic"
)

// ProviderStatus is the outcome of the most recent probe against one provider.
type ProviderStatus struct {
	OK        bool      `json:"ok"`
	LastError string    `json:"lastError,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// providerHealth is written by the probe job and read by request handlers.
type providerHealth struct {
	ok        atomic.Bool
	lastError atomic.String
	checkedAt atomic.Int64 // unix nanos, 0 until the first probe
}

func (h *providerHealth) record(err error, at time.Time) {
	if err != nil {
		h.lastError.Store(err.Error())
	} else {
		h.lastError.Store("")
	}
	h.ok.Store(err == nil)
	h.checkedAt.Store(at.UnixNano())
}

func (h *providerHealth) snapshot() (ProviderStatus, bool) {
	at := h.checkedAt.Load()
	if at == 0 {
		return ProviderStatus{}, false
	}
	return ProviderStatus{
		OK:        h.ok.Load(),
		LastError: h.lastError.Load(),
		CheckedAt: time.Unix(0, at).UTC(),
	}, true
}
