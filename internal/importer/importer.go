// Package importer reads expense spreadsheets exported as CSV.
package importer

import (
	"errors"
	"strings"
)

var ErrNoHeader = errors.New("no expense header found: expected date, purpose and amount columns")

// Row is one parsed expense line. Amount is in cents.
type Row struct {
	Date    string // YYYY-MM-DD
	Purpose string
	Amount  int64
	Note    string
	Payer   string // empty when the file has no payer column
}

type field int

const (
	fieldDate field = iota
	fieldPurpose
	fieldAmount
	fieldNote
	fieldPayer
)

// aliases maps accepted header names, lower-cased, to the field they fill.
var aliases = map[string]field{
	"date":        fieldDate,
	"day":         fieldDate,
	"data":        fieldDate,
	"purpose":     fieldPurpose,
	"description": fieldPurpose,
	"item":        fieldPurpose,
	"descrição":   fieldPurpose,
	"amount":      fieldAmount,
	"value":       fieldAmount,
	"montante":    fieldAmount,
	"valor":       fieldAmount,
	"note":        fieldNote,
	"notes":       fieldNote,
	"comment":     fieldNote,
	"payer":       fieldPayer,
	"paid by":     fieldPayer,
	"member":      fieldPayer,
}

var requiredFields = []field{fieldDate, fieldPurpose, fieldAmount}

func headerKey(cell string) string {
	return strings.ToLower(strings.TrimSpace(cell))
}
