package pos

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// TerminalTiming controls the simulated delays of one card attempt
type TerminalTiming struct {
	CardPresentDelay time.Duration
	ProcessingDelay  time.Duration
}

// DefaultTerminalTiming mirrors a real pinpad's pacing
func DefaultTerminalTiming() TerminalTiming {
	return TerminalTiming{
		CardPresentDelay: 2 * time.Second,
		ProcessingDelay:  2 * time.Second,
	}
}

// TerminalService runs one integrated-tender attempt through the card
// terminal: create an intent, prompt for the card, capture. Every
// state transition is pushed to the observer so the register can
// render the terminal dialog. Cancelling the context before capture
// aborts the attempt as CANCELLED
type TerminalService struct {
	gateway pos.PaymentGateway
	timing  TerminalTiming
	logger  *zap.Logger
}

// NewTerminalService creates a new TerminalService
func NewTerminalService(gateway pos.PaymentGateway, timing TerminalTiming, logger *zap.Logger) *TerminalService {
	return &TerminalService{
		gateway: gateway,
		timing:  timing,
		logger:  logger,
	}
}

// ProcessPayment runs one attempt for the given amount and returns the
// final session state. The returned error is reserved for gateway
// transport failures; a decline is a normal FAILED session, not an
// error
func (s *TerminalService) ProcessPayment(ctx context.Context, amount decimal.Decimal, observer pos.TerminalObserver) (pos.TerminalSession, error) {
	notify := func(status pos.TerminalStatus, message string) {
		if observer != nil {
			observer(status, message)
		}
	}

	notify(pos.TerminalProcessing, pos.TerminalMsgInitializing)

	token, err := s.gateway.CreateIntent(ctx, valueobject.NewMoneyUSD(amount))
	if err != nil {
		s.logger.Error("create intent failed", zap.Error(err))
		notify(pos.TerminalFailed, pos.TerminalMsgDeclined)
		return pos.TerminalSession{Status: pos.TerminalFailed, Message: pos.TerminalMsgDeclined}, err
	}

	notify(pos.TerminalWaiting, pos.TerminalMsgPresentCard)
	if cancelled := s.wait(ctx, s.timing.CardPresentDelay); cancelled {
		notify(pos.TerminalCancelled, pos.TerminalMsgCancelled)
		return pos.TerminalSession{Status: pos.TerminalCancelled, Message: pos.TerminalMsgCancelled}, nil
	}

	notify(pos.TerminalProcessing, pos.TerminalMsgProcessing)
	if cancelled := s.wait(ctx, s.timing.ProcessingDelay); cancelled {
		notify(pos.TerminalCancelled, pos.TerminalMsgCancelled)
		return pos.TerminalSession{Status: pos.TerminalCancelled, Message: pos.TerminalMsgCancelled}, nil
	}

	result, err := s.gateway.Capture(ctx, token)
	if err != nil {
		s.logger.Error("capture failed", zap.Error(err))
		notify(pos.TerminalFailed, pos.TerminalMsgDeclined)
		return pos.TerminalSession{Status: pos.TerminalFailed, Message: pos.TerminalMsgDeclined}, err
	}

	if !result.Approved {
		message := result.Message
		if message == "" {
			message = pos.TerminalMsgDeclined
		}
		s.logger.Info("payment declined",
			zap.String("amount", amount.StringFixed(2)),
			zap.String("message", message),
		)
		notify(pos.TerminalFailed, message)
		return pos.TerminalSession{Status: pos.TerminalFailed, Message: message}, nil
	}

	s.logger.Info("payment approved", zap.String("amount", amount.StringFixed(2)))
	notify(pos.TerminalSuccess, pos.TerminalMsgApproved)
	return pos.TerminalSession{Status: pos.TerminalSuccess, Message: pos.TerminalMsgApproved}, nil
}

// wait sleeps for d unless the context is cancelled first
func (s *TerminalService) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() != nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return true
	case <-timer.C:
		return false
	}
}
