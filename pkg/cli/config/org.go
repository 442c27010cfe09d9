package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
)

// OrgConfig is the seed file layout for the organization: the unit
// tree and the member directory.
type OrgConfig struct {
	Units   []Unit   `toml:"unit"`
	Members []Member `toml:"member"`
}

// Unit is one node of the organizational tree in the seed file
type Unit struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	ParentID string `toml:"parent_id"`
}

// Validate checks if the Unit is valid
func (u *Unit) Validate() error {
	if u.ID == "" {
		return goerr.New("unit ID is required")
	}
	if u.Name == "" {
		return goerr.New("unit name is required", goerr.V("id", u.ID))
	}
	return nil
}

// Member is one directory entry in the seed file
type Member struct {
	ID     string `toml:"id"`
	Name   string `toml:"name"`
	Role   string `toml:"role"`
	UnitID string `toml:"unit_id"`
}

// Validate checks if the Member is valid
func (m *Member) Validate() error {
	if m.ID == "" {
		return goerr.New("member ID is required")
	}
	if m.Name == "" {
		return goerr.New("member name is required", goerr.V("id", m.ID))
	}
	if _, err := types.ParseRole(m.Role); err != nil {
		return goerr.Wrap(err, "invalid member role", goerr.V("id", m.ID))
	}
	if m.UnitID == "" {
		return goerr.New("member unit_id is required", goerr.V("id", m.ID))
	}
	return nil
}

// Validate checks if the OrgConfig is valid. Every member must belong
// to a declared unit and every non-root unit must reference a declared
// parent.
func (o *OrgConfig) Validate() error {
	unitIDs := make(map[string]bool)
	for _, u := range o.Units {
		if err := u.Validate(); err != nil {
			return goerr.Wrap(err, "invalid unit")
		}
		if unitIDs[u.ID] {
			return goerr.New("duplicate unit ID", goerr.V("id", u.ID))
		}
		unitIDs[u.ID] = true
	}

	for _, u := range o.Units {
		if u.ParentID != "" && !unitIDs[u.ParentID] {
			return goerr.New("unit references unknown parent",
				goerr.V("id", u.ID), goerr.V("parent_id", u.ParentID))
		}
	}

	memberIDs := make(map[string]bool)
	for _, m := range o.Members {
		if err := m.Validate(); err != nil {
			return goerr.Wrap(err, "invalid member")
		}
		if memberIDs[m.ID] {
			return goerr.New("duplicate member ID", goerr.V("id", m.ID))
		}
		memberIDs[m.ID] = true

		if !unitIDs[m.UnitID] {
			return goerr.New("member references unknown unit",
				goerr.V("id", m.ID), goerr.V("unit_id", m.UnitID))
		}
	}

	return nil
}

// LoadOrgConfiguration loads the organization seed from a TOML file
func LoadOrgConfiguration(path string) (*OrgConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read org file", goerr.V("path", path))
	}

	var config OrgConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML org file", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "org validation failed", goerr.V("path", path))
	}

	return &config, nil
}

// DomainUnits converts the seed units to domain models
func (o *OrgConfig) DomainUnits() []*model.OrgUnit {
	units := make([]*model.OrgUnit, len(o.Units))
	for i, u := range o.Units {
		units[i] = &model.OrgUnit{
			ID:       types.UnitID(u.ID),
			Name:     u.Name,
			ParentID: types.UnitID(u.ParentID),
		}
	}
	return units
}

// DomainMembers converts the seed members to domain models
func (o *OrgConfig) DomainMembers() []*model.Member {
	members := make([]*model.Member, len(o.Members))
	for i, m := range o.Members {
		members[i] = &model.Member{
			ID:     types.UserID(m.ID),
			Name:   m.Name,
			Role:   types.Role(m.Role),
			UnitID: types.UnitID(m.UnitID),
		}
	}
	return members
}
