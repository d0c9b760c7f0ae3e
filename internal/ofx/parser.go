// Package ofx imports OFX/QFX bank statement downloads into the ledger.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/mkade/saffron/internal/service"
)

// Parser parses OFX/QFX files into statement entries.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes common formatting issues in OFX files before parsing:
// stray leading whitespace, mixed-case SEVERITY values, and SGML-style tags
// missing their closing bracket.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// Parse reads an OFX/QFX document and returns its bank and credit card
// statement entries. Amounts keep the statement's sign: negative for debits.
func (p *Parser) Parse(_ context.Context, r io.Reader) ([]service.StatementEntry, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []service.StatementEntry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			entries = append(entries, statementEntries(stmt.BankTranList)...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			entries = append(entries, statementEntries(stmt.BankTranList)...)
		}
	}

	slog.Info("parsed OFX file",
		"entries", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)
	return entries, nil
}

// statementEntries converts one OFX transaction list.
func statementEntries(list *ofxgo.TransactionList) []service.StatementEntry {
	if list == nil {
		return nil
	}

	entries := make([]service.StatementEntry, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		entries = append(entries, service.StatementEntry{
			Date:        ofxTx.DtPosted.Time,
			Description: entryDescription(ofxTx),
			Amount:      ofxTx.TrnAmt.FloatString(2),
		})
	}
	return entries
}

// entryDescription picks the cleanest available description for an entry.
func entryDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}
	name := strings.TrimSpace(string(tx.Name))
	if name == "" && tx.Memo != "" {
		name = strings.TrimSpace(string(tx.Memo))
	}
	return name
}
