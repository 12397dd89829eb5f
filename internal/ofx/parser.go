// Package ofx reads OFX/QFX bank and credit card statements into transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/finpulse/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// Statement kinds.
const (
	KindBank       = "bank"
	KindCreditCard = "creditcard"
)

// Statement is one account's section of an OFX file. Transactions carry no
// local account until Assign is called.
type Statement struct {
	BalanceAsOf   time.Time
	Balance       *decimal.Decimal
	AccountNumber string
	Kind          string
	Currency      string
	Transactions  []model.Transaction
}

// Assign attaches every transaction to a local account and computes its
// duplicate-detection hash.
func (s *Statement) Assign(accountID string) {
	for i := range s.Transactions {
		s.Transactions[i].AccountID = accountID
		s.Transactions[i].Hash = s.Transactions[i].GenerateHash()
	}
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket on bare opening tags.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file into one Statement per account.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var statements []Statement
	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		statements = append(statements, Statement{
			AccountNumber: string(stmt.BankAcctFrom.AcctID),
			Kind:          KindBank,
			Currency:      stmt.CurDef.String(),
			Balance:       toDecimalPtr(stmt.BalAmt),
			BalanceAsOf:   stmt.DtAsOf.Time,
			Transactions:  p.convertList(stmt.BankTranList),
		})
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		statements = append(statements, Statement{
			AccountNumber: string(stmt.CCAcctFrom.AcctID),
			Kind:          KindCreditCard,
			Currency:      stmt.CurDef.String(),
			Balance:       toDecimalPtr(stmt.BalAmt),
			BalanceAsOf:   stmt.DtAsOf.Time,
			Transactions:  p.convertList(stmt.BankTranList),
		})
	}

	total := 0
	for i := range statements {
		total += len(statements[i].Transactions)
	}
	slog.Info("Parsed OFX file",
		"total_transactions", total,
		"statements", len(statements))

	return statements, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList) []model.Transaction {
	if list == nil {
		return nil
	}

	transactions := make([]model.Transaction, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		tx, ok := p.convertTransaction(ofxTx)
		if !ok {
			slog.Debug("Skipping zero-amount OFX transaction", "fitid", string(ofxTx.FiTID))
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions
}

// convertTransaction maps an OFX transaction onto the model. Credits become
// income and debits become expenses, both stored as positive amounts.
// Transfers keep their own type. Zero amounts are dropped.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction) (model.Transaction, bool) {
	amount := toDecimal(ofxTx.TrnAmt)
	if amount.IsZero() {
		return model.Transaction{}, false
	}

	typ := model.TransactionTypeIncome
	if amount.IsNegative() {
		typ = model.TransactionTypeExpense
	}
	if ofxTx.TrnType == ofxgo.TrnTypeXfer {
		typ = model.TransactionTypeTransfer
	}

	posted := ofxTx.DtPosted.Time
	return model.Transaction{
		Date:   time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC),
		Amount: amount.Abs(),
		Type:   typ,
		Notes:  p.describe(ofxTx),
	}, true
}

// describe builds the notes for an imported transaction. The FITID is kept so
// two identical purchases on one day stay distinct while re-imports of the
// same file still collapse.
func (p *Parser) describe(tx ofxgo.Transaction) string {
	name := p.extractMerchantName(tx)
	if tx.CheckNum != "" {
		name = fmt.Sprintf("%s (check %s)", name, tx.CheckNum)
	}
	if tx.FiTID != "" {
		name = fmt.Sprintf("%s [%s]", name, tx.FiTID)
	}
	return name
}

var merchantPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

func toDecimal(a ofxgo.Amount) decimal.Decimal {
	return decimal.RequireFromString(a.Rat.FloatString(2))
}

func toDecimalPtr(a ofxgo.Amount) *decimal.Decimal {
	d := toDecimal(a)
	return &d
}

// GetAccounts extracts unique account numbers from the OFX file.
func (p *Parser) GetAccounts(ctx context.Context, reader io.Reader) ([]string, error) {
	statements, err := p.ParseFile(ctx, reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	for _, stmt := range statements {
		if stmt.AccountNumber == "" || seen[stmt.AccountNumber] {
			continue
		}
		seen[stmt.AccountNumber] = true
		accounts = append(accounts, stmt.AccountNumber)
	}
	return accounts, nil
}
