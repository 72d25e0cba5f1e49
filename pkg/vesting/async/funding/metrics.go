package async_funding

import (
	"context"

	"github.com/metatime-io/vesting-server/pkg/metrics"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/claim"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/ledger"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
)

const (
	fundingCheckEventName = "PoolFundingCheck"
)

func (p *service) estimateFundingLevels(ctx context.Context, record *pool.Record) (uint64, *claim.Totals, error) {
	totals, err := p.data.GetClaimTotalsByPool(ctx, record.Address)
	if err != nil {
		return 0, nil, err
	}

	account, err := p.data.GetLedgerAccount(ctx, record.Address)
	if err == ledger.ErrAccountNotFound {
		return 0, totals, nil
	}
	if err != nil {
		return 0, nil, err
	}

	return account.Balance, totals, nil
}

func recordFundingEvent(ctx context.Context, record *pool.Record, balance, entitled, claimed uint64) {
	outstanding := entitled - claimed

	metrics.RecordEvent(ctx, fundingCheckEventName, map[string]interface{}{
		"pool":        record.Address,
		"variant":     record.Variant.String(),
		"balance":     balance,
		"entitled":    entitled,
		"claimed":     claimed,
		"outstanding": outstanding,
	})
}
