package models

// Participant masks for transaction types.
const (
	ParticipantsOwner       = "OWNER"
	ParticipantsBeneficiary = "BENEFICIARY"
	ParticipantsBoth        = "BOTH"
)

// Currency is a read-only catalog entry. The engine consults the Active
// flag before creating transfers; everything else about currency
// administration belongs to the catalog service.
type Currency struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// TransactionType classifies an operation. Participants tells which sides
// an operation of this type carries (OWNER, BENEFICIARY or BOTH).
type TransactionType struct {
	ID           string `json:"id"`
	Tag          string `json:"tag"`
	Participants string `json:"participants"`
	Active       bool   `json:"active"`
}
