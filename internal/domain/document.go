// Package domain encodes a registration document and its products
package domain

// Description carries the identifier of the participant filing the document.
type Description struct {
	ParticipantInn string `json:"participantInn"`
}

// Document is the payload submitted to the document-registration API.
// It is treated as immutable once handed to the client.
type Document struct {
	Description    Description `json:"description"`
	DocID          string      `json:"doc_id"`
	DocStatus      string      `json:"doc_status"`
	DocType        string      `json:"doc_type"`
	ImportRequest  bool        `json:"importRequest"`
	OwnerInn       string      `json:"owner_inn"`
	ParticipantInn string      `json:"participant_inn"`
	ProducerInn    string      `json:"producer_inn"`
	ProductionDate Date        `json:"production_date"`
	ProductionType string      `json:"production_type"`
	Products       []Product   `json:"products"`
	RegDate        Date        `json:"reg_date"`
	RegNumber      string      `json:"reg_number"`
}

// Product is a line of a Document. It has no lifecycle of its own.
type Product struct {
	CertificationDocument       string `json:"certification_document"`
	CertificationDocumentDate   Date   `json:"certification_document_date"`
	CertificationDocumentNumber string `json:"certification_document_number"`
	OwnerInn                    string `json:"owner_inn"`
	ProducerInn                 string `json:"producer_inn"`
	ProductionDate              Date   `json:"production_date"`
	TnvedCode                   string `json:"tnved_code"`
	UitCode                     string `json:"uit_code"`
	UituCode                    string `json:"uitu_code"`
}
