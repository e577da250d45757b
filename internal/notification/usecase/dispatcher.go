package usecase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"github.com/web5lab/customer-bot-app/internal/notification/domain"
	"github.com/web5lab/customer-bot-app/internal/notification/dto"
)

// A single multicast call accepts at most 500 registration tokens.
const maxTokensPerBatch = 500

// dispatch splits the targets into provider-sized batches, sends them
// sequentially and sums the per-batch counts. Individual token failures
// are normal results; only a failed provider call is an error, and it
// aborts the remaining batches.
func (u *notificationUsecase) dispatch(ctx context.Context, targets []string, title, body string, data map[string]any) (*dto.SendResult, error) {
	if len(targets) == 0 {
		return nil, domain.ErrNoTargets
	}

	stringData := stringifyData(data)
	totalBatches := (len(targets) + maxTokensPerBatch - 1) / maxTokensPerBatch

	result := &dto.SendResult{}
	for i := 0; i < len(targets); i += maxTokensPerBatch {
		batch := targets[i:min(i+maxTokensPerBatch, len(targets))]

		response, err := u.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data:   stringData,
			Tokens: batch,
		})
		if err != nil {
			sent := i / maxTokensPerBatch
			u.log.Error("Provider call failed, aborting remaining batches",
				zap.Int("batches_sent", sent),
				zap.Int("batches_total", totalBatches),
				zap.Int("success", result.SuccessCount),
				zap.Int("failure", result.FailureCount),
				zap.Error(err),
			)
			// Partial progress is surfaced, not rolled back: batches already
			// sent stay sent and their counts are reported with the error.
			return result, fmt.Errorf("%w after %d of %d batches (%d delivered, %d failed): %v",
				domain.ErrProviderSend, sent, totalBatches, result.SuccessCount, result.FailureCount, err)
		}

		result.SuccessCount += response.SuccessCount
		result.FailureCount += response.FailureCount

		if response.FailureCount > 0 {
			u.cleanupInvalidTokens(ctx, batch, response.Responses)
		}
	}

	u.log.Debug("Notification dispatched",
		zap.Int("tokens", len(targets)),
		zap.Int("batches", totalBatches),
		zap.Int("success", result.SuccessCount),
		zap.Int("failure", result.FailureCount),
	)
	return result, nil
}

// cleanupInvalidTokens prunes tokens the provider reports as permanently
// invalid or unregistered. Transient failures are logged only.
func (u *notificationUsecase) cleanupInvalidTokens(ctx context.Context, batch []string, responses []*messaging.SendResponse) {
	for i, resp := range responses {
		if resp.Success {
			continue
		}

		if u.isInvalidToken(resp.Error) {
			if err := u.tokens.PruneToken(ctx, batch[i]); err != nil {
				u.log.Warn("Failed to remove invalid token",
					zap.String("token_preview", tokenPreview(batch[i])),
					zap.Error(err),
				)
				continue
			}
			u.log.Debug("Removed invalid token", zap.String("token_preview", tokenPreview(batch[i])))
		} else {
			u.log.Warn("Failed to send push notification",
				zap.String("token_preview", tokenPreview(batch[i])),
				zap.Error(resp.Error),
			)
		}
	}
}

// isPermanentTokenError reports whether a per-token failure means the
// token will never work again, as opposed to transient unavailability.
// https://firebase.google.com/docs/cloud-messaging/manage-tokens#detect-invalid-token-responses-from-the-fcm-backend
func isPermanentTokenError(err error) bool {
	return messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err)
}

// stringifyData coerces every data value to its string form, since FCM
// only accepts string-valued metadata.
func stringifyData(data map[string]any) map[string]string {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = fmt.Sprint(v)
	}
	return out
}
