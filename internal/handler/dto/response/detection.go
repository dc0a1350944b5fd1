package response

import "parkgate/internal/usecase/commands"

type IngestResponse struct {
	Outcome          string                `json:"outcome"`
	Session          *SessionResponse      `json:"session,omitempty"`
	FeeCents         *int64                `json:"feeCents,omitempty"`
	PaymentRequested bool                  `json:"paymentRequested"`
	Gate             *GateDecisionResponse `json:"gate,omitempty"`
}

func FromIngestResult(result *commands.IngestResult) *IngestResponse {
	resp := &IngestResponse{Outcome: string(result.Outcome)}

	switch {
	case result.Entry != nil:
		resp.Session = FromSession(result.Entry.Session)
		resp.Gate = FromGateDecision(result.Entry.Gate)
	case result.Exit != nil:
		resp.Session = FromSession(result.Exit.Session)
		resp.Gate = FromGateDecision(result.Exit.Gate)
		fee := result.Exit.Fee.Cents()
		resp.FeeCents = &fee
		resp.PaymentRequested = result.Exit.PaymentRequested
	}
	return resp
}
