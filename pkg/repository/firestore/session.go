package firestore

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const sessionsCollection = "sessions"

func (f *Firestore) PutSession(ctx context.Context, sess *auth.Session) error {
	_, err := f.client.Collection(sessionsCollection).Doc(string(sess.ID)).Set(ctx, sess)
	if err != nil {
		return goerr.Wrap(err, "failed to put session")
	}

	return nil
}

func (f *Firestore) GetSession(ctx context.Context, id auth.SessionID) (*auth.Session, error) {
	docSnap, err := f.client.Collection(sessionsCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "session not found")
		}
		return nil, goerr.Wrap(err, "failed to get session")
	}

	var sess auth.Session
	if err := docSnap.DataTo(&sess); err != nil {
		return nil, goerr.Wrap(err, "failed to decode session")
	}

	return &sess, nil
}

func (f *Firestore) DeleteSession(ctx context.Context, id auth.SessionID) error {
	if _, err := f.client.Collection(sessionsCollection).Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session")
	}

	return nil
}
