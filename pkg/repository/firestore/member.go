package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/interfaces"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type memberRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *memberRepository) membersCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_members"
	}
	return "members"
}

func (r *memberRepository) Put(ctx context.Context, m *model.Member) error {
	stored := *m
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	_, err := r.client.Collection(r.membersCollection()).Doc(string(m.ID)).Set(ctx, &stored)
	if err != nil {
		return goerr.Wrap(err, "failed to put member", goerr.V("id", m.ID))
	}

	return nil
}

func (r *memberRepository) Get(ctx context.Context, id types.UserID) (*model.Member, error) {
	docSnap, err := r.client.Collection(r.membersCollection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "member not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get member", goerr.V("id", id))
	}

	var m model.Member
	if err := docSnap.DataTo(&m); err != nil {
		return nil, goerr.Wrap(err, "failed to decode member", goerr.V("id", id))
	}

	return &m, nil
}

func (r *memberRepository) List(ctx context.Context) ([]*model.Member, error) {
	iter := r.client.Collection(r.membersCollection()).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	result := []*model.Member{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate members")
		}

		var m model.Member
		if err := docSnap.DataTo(&m); err != nil {
			return nil, goerr.Wrap(err, "failed to decode member")
		}
		result = append(result, &m)
	}

	return result, nil
}

type unitRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *unitRepository) unitsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_org_units"
	}
	return "org_units"
}

func (r *unitRepository) Put(ctx context.Context, u *model.OrgUnit) error {
	_, err := r.client.Collection(r.unitsCollection()).Doc(string(u.ID)).Set(ctx, u)
	if err != nil {
		return goerr.Wrap(err, "failed to put unit", goerr.V("id", u.ID))
	}

	return nil
}

func (r *unitRepository) Get(ctx context.Context, id types.UnitID) (*model.OrgUnit, error) {
	docSnap, err := r.client.Collection(r.unitsCollection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "unit not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get unit", goerr.V("id", id))
	}

	var u model.OrgUnit
	if err := docSnap.DataTo(&u); err != nil {
		return nil, goerr.Wrap(err, "failed to decode unit", goerr.V("id", id))
	}

	return &u, nil
}

func (r *unitRepository) List(ctx context.Context) ([]*model.OrgUnit, error) {
	iter := r.client.Collection(r.unitsCollection()).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	result := []*model.OrgUnit{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate units")
		}

		var u model.OrgUnit
		if err := docSnap.DataTo(&u); err != nil {
			return nil, goerr.Wrap(err, "failed to decode unit")
		}
		result = append(result, &u)
	}

	return result, nil
}
