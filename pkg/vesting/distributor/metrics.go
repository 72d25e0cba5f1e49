package distributor

import (
	"context"

	"github.com/metatime-io/vesting-server/pkg/metrics"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
)

const (
	claimEventName   = "VestingClaim"
	sweepEventName   = "VestingSweep"
	depositEventName = "VestingDeposit"
)

func recordClaimEvent(ctx context.Context, poolRecord *pool.Record, recipient string, amount uint64) {
	metrics.RecordEvent(ctx, claimEventName, map[string]interface{}{
		"pool":      poolRecord.Address,
		"variant":   poolRecord.Variant.String(),
		"recipient": recipient,
		"amount":    amount,
	})
}

func recordSweepEvent(ctx context.Context, poolRecord *pool.Record, amount uint64) {
	metrics.RecordEvent(ctx, sweepEventName, map[string]interface{}{
		"pool":   poolRecord.Address,
		"owner":  poolRecord.Owner,
		"amount": amount,
	})
}

func recordDepositEvent(ctx context.Context, poolRecord *pool.Record, sender string, amount, balance uint64) {
	metrics.RecordEvent(ctx, depositEventName, map[string]interface{}{
		"pool":    poolRecord.Address,
		"sender":  sender,
		"amount":  amount,
		"balance": balance,
	})
}
