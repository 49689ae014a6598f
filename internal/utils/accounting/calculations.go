package accounting

import (
	"fmt"

	"github.com/openledgerhq/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum allowed divergence between the debit and
// credit sums of a batch, in currency units.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// SumBatch returns the total debit and credit amounts across a batch of lines.
func SumBatch(lines []domain.JournalLine) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.DebitAmount)
		credits = credits.Add(line.CreditAmount)
	}
	return debits, credits
}

// ValidateBatchBalance checks the double-entry invariant for a batch:
// the batch is non-empty, each line carries exactly one positive side, and
// total debits equal total credits within BalanceTolerance.
func ValidateBatchBalance(lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("journal batch must contain at least one line")
	}

	for i, line := range lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return fmt.Errorf("line %d: amounts must be non-negative", i)
		}
		hasDebit := line.DebitAmount.IsPositive()
		hasCredit := line.CreditAmount.IsPositive()
		if hasDebit && hasCredit {
			return fmt.Errorf("line %d: debit and credit are mutually exclusive on one line", i)
		}
		if !hasDebit && !hasCredit {
			return fmt.Errorf("line %d: exactly one of debit or credit must be positive", i)
		}
	}

	debits, credits := SumBatch(lines)
	if debits.Sub(credits).Abs().GreaterThan(BalanceTolerance) {
		return fmt.Errorf("debits sum is %s and credits sum is %s", debits.String(), credits.String())
	}
	return nil
}
