package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"emaktab-snapshot/internal/capture"
	"emaktab-snapshot/internal/snapshot"
	pkgLog "emaktab-snapshot/pkg/log"
)

// RunAll captures every account in name order, one browser at a time, and
// delivers each result. A failing account never stops the batch.
func (uc *implUseCase) RunAll(ctx context.Context) (snapshot.Report, error) {
	if !uc.running.TryLock() {
		return snapshot.Report{}, snapshot.ErrRunInProgress
	}
	defer uc.running.Unlock()

	report := snapshot.Report{RunID: uuid.NewString(), StartedAt: time.Now()}
	ctx = pkgLog.WithFields(ctx, pkgLog.Field{Key: "run_id", Value: report.RunID})

	out, err := uc.accounts.List(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "uc.RunAll list accounts: %v", err)
		return report, fmt.Errorf("%w: %w", snapshot.ErrListAccounts, err)
	}
	report.Total = len(out.Accounts)
	uc.l.Infof(ctx, "uc.RunAll starting batch for %d accounts", report.Total)

	for _, acc := range out.Accounts {
		if err := ctx.Err(); err != nil {
			uc.l.Warnf(ctx, "uc.RunAll stopped after %d/%d: %v",
				report.Succeeded+report.Failed, report.Total, err)
			break
		}

		res := uc.capturer.Capture(ctx, acc)
		if res.Failed() {
			report.Failed++
		} else {
			report.Succeeded++
		}
		uc.deliver(ctx, res)
	}

	report.FinishedAt = time.Now()
	uc.l.Infof(ctx, "uc.RunAll done in %s: %d ok, %d failed",
		report.FinishedAt.Sub(report.StartedAt), report.Succeeded, report.Failed)
	return report, nil
}

// deliver sends one outcome to every recipient. Transport errors are logged only.
func (uc *implUseCase) deliver(ctx context.Context, res capture.Outcome) {
	for _, chatID := range uc.recipients {
		var err error
		if res.Failed() {
			err = uc.notifier.SendMessage(ctx, chatID, FailureText(res.Account.Name, res.Account.Login))
		} else {
			err = uc.notifier.SendPhoto(ctx, chatID, res.Image, PhotoCaption(res.Account.Name, res.Account.Login))
		}
		if err != nil {
			uc.l.Warnf(ctx, "uc.deliver chat %d, account %s: %v", chatID, res.Account.Login, err)
		}
	}
}
