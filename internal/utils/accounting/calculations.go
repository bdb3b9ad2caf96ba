package accounting

import (
	"fmt"

	"github.com/SscSPs/household_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceChanges returns the per-account balance deltas a ledger entry causes.
// Income credits the account, expense debits it, and a transfer moves the
// amount from AccountID to TransferToAccountID.
func BalanceChanges(txn domain.Transaction) (map[string]decimal.Decimal, error) {
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	switch txn.Type {
	case domain.Income:
		return map[string]decimal.Decimal{txn.AccountID: txn.Amount}, nil
	case domain.Expense:
		return map[string]decimal.Decimal{txn.AccountID: txn.Amount.Neg()}, nil
	case domain.Transfer:
		return map[string]decimal.Decimal{
			txn.AccountID:            txn.Amount.Neg(),
			*txn.TransferToAccountID: txn.Amount,
		}, nil
	default:
		return nil, fmt.Errorf("unknown transaction type '%s' encountered for transaction %s", txn.Type, txn.TransactionID)
	}
}

// ReverseChanges negates every delta, used when a ledger entry is removed.
func ReverseChanges(changes map[string]decimal.Decimal) map[string]decimal.Decimal {
	reversed := make(map[string]decimal.Decimal, len(changes))
	for accountID, delta := range changes {
		reversed[accountID] = delta.Neg()
	}
	return reversed
}

// ReplayBalance rebuilds an account balance from its ledger history.
//
// entries are the transactions whose AccountID is the account; incoming are
// transfers whose TransferToAccountID is the account and whose AccountID is
// another account. A transfer in entries only subtracts when it carries a
// destination; the transfer-side asymmetry is kept as-is pending product
// confirmation.
func ReplayBalance(accountID string, entries []domain.Transaction, incoming []domain.Transaction) decimal.Decimal {
	balance := decimal.Zero

	for _, txn := range entries {
		switch txn.Type {
		case domain.Income:
			balance = balance.Add(txn.Amount)
		case domain.Expense:
			balance = balance.Sub(txn.Amount)
		case domain.Transfer:
			if txn.AccountID == accountID && txn.TransferToAccountID != nil {
				balance = balance.Sub(txn.Amount)
			}
		}
	}

	for _, txn := range incoming {
		if txn.Type == domain.Transfer && txn.AccountID != accountID {
			balance = balance.Add(txn.Amount)
		}
	}

	return balance
}
