package async_funding

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/metatime-io/vesting-server/pkg/database/query"
	"github.com/metatime-io/vesting-server/pkg/retry"
	"github.com/metatime-io/vesting-server/pkg/retry/backoff"
	"github.com/metatime-io/vesting-server/pkg/vesting/async"
	"github.com/metatime-io/vesting-server/pkg/vesting/data"
	"github.com/metatime-io/vesting-server/pkg/vesting/data/pool"
)

type service struct {
	log  *logrus.Entry
	conf *conf
	data data.Provider
}

// New returns a funding gauge service that periodically reports every pool's
// held balance against its outstanding entitlements.
func New(data data.Provider, configProvider ConfigProvider) async.Service {
	return &service{
		log:  logrus.StandardLogger().WithField("service", "funding"),
		conf: configProvider(),
		data: data,
	}
}

func (p *service) Start(ctx context.Context, interval time.Duration) error {
	go func() {
		err := retry.Loop(
			func() error {
				return p.fundingGaugeWorker(ctx, interval)
			},
			retry.NonRetriableErrors(context.Canceled),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
		)
		if err != nil && err != context.Canceled {
			p.log.WithError(err).Warn("funding gauge loop terminated unexpectedly")
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *service) fundingGaugeWorker(ctx context.Context, interval time.Duration) error {
	delay := interval

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			start := time.Now()

			if err := p.reportAllPools(ctx); err != nil {
				return err
			}

			delay = interval - time.Since(start)
		}
	}
}

func (p *service) reportAllPools(ctx context.Context) error {
	batchSize := p.conf.batchSize.Get(ctx)

	cursor := query.EmptyCursor
	for {
		records, err := p.data.GetAllPools(ctx, cursor, batchSize, query.Ascending)
		if err == pool.ErrPoolNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		for _, record := range records {
			balance, totals, err := p.estimateFundingLevels(ctx, record)
			if err != nil {
				p.log.WithError(err).WithField("pool", record.Address).Warn("failed to estimate funding levels")
				continue
			}
			recordFundingEvent(ctx, record, balance, totals.Entitled, totals.Claimed)
		}

		cursor = query.ToCursor(records[len(records)-1].Id)
	}
}
