package push

import (
	"context"
	"fmt"

	"github.com/SscSPs/pocket_wallet/internal/apperrors"
	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/SscSPs/pocket_wallet/internal/core/ports"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/fcm/v1"
	"google.golang.org/api/option"
)

const firebaseMessagingScope = "https://www.googleapis.com/auth/firebase.messaging"

// FCMTransport delivers messages through the Firebase Cloud Messaging HTTP v1 API.
type FCMTransport struct {
	service   *fcm.Service
	projectID string
}

var _ ports.PushTransport = (*FCMTransport)(nil)

// NewFCMTransport builds a transport from the JSON of a Firebase service account.
func NewFCMTransport(ctx context.Context, serviceAccountJSON string) (*FCMTransport, error) {
	creds, err := google.CredentialsFromJSON(ctx, []byte(serviceAccountJSON), firebaseMessagingScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse firebase service account: %w", err)
	}
	if creds.ProjectID == "" {
		return nil, fmt.Errorf("firebase service account has no project_id")
	}

	svc, err := fcm.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create fcm service: %w", err)
	}
	return &FCMTransport{service: svc, projectID: creds.ProjectID}, nil
}

func (t *FCMTransport) Send(ctx context.Context, msg domain.PushMessage) error {
	req := &fcm.SendMessageRequest{
		Message: &fcm.Message{
			Token: msg.To,
			Notification: &fcm.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		},
	}

	_, err := t.service.Projects.Messages.Send("projects/"+t.projectID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: fcm send failed: %w", apperrors.ErrUpstream, err)
	}
	return nil
}
