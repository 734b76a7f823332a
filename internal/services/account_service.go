package services

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/store"
)

// SurveyRecorder is what AccountService needs from the survey store.
type SurveyRecorder interface {
	Record(ctx context.Context, response *models.DeleteSurveyResponse) error
}

// SurveyBrowser is the read side of the survey archive, served on the ops
// endpoint.
type SurveyBrowser interface {
	RecentResponses(ctx context.Context, limit int64) ([]models.DeleteSurveyResponse, error)
}

// AccountService runs the account deletion flow: record the exit survey,
// delete the user document, then delete the auth user.
type AccountService struct {
	docs       store.DocumentStore
	surveys    SurveyRecorder
	authClient *fbauth.Client
	logger     *zap.SugaredLogger
}

// NewAccountService creates the service. surveys and authClient may each be
// nil; the corresponding step is skipped (local/dev deployments).
func NewAccountService(docs store.DocumentStore, surveys SurveyRecorder, authClient *fbauth.Client, logger *zap.SugaredLogger) *AccountService {
	return &AccountService{
		docs:       docs,
		surveys:    surveys,
		authClient: authClient,
		logger:     logger,
	}
}

// DeleteAccount removes the user. The survey answer is best-effort: failing
// to record it must never leave the account half-alive, so the deletion
// proceeds regardless.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string, req *models.DeleteAccountRequest) error {
	if s.surveys != nil {
		response := &models.DeleteSurveyResponse{
			UID:     userID,
			Reason:  req.Reason,
			Details: req.Details,
		}
		if err := s.surveys.Record(ctx, response); err != nil {
			s.logger.Warnw("failed to record delete survey", "user", userID, "error", err)
		}
	}

	if err := s.docs.Delete(ctx, "users/"+userID); err != nil {
		return fmt.Errorf("delete user document: %w", err)
	}

	if s.authClient != nil {
		if err := s.authClient.DeleteUser(ctx, userID); err != nil {
			return fmt.Errorf("delete auth user: %w", err)
		}
	}

	s.logger.Infow("account deleted", "user", userID, "reason", req.Reason)
	return nil
}
