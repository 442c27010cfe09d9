package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
)

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		name string
		role types.Role
		want bool
	}{
		{
			name: "valid admin",
			role: types.RoleAdmin,
			want: true,
		},
		{
			name: "valid activist",
			role: types.RoleActivist,
			want: true,
		},
		{
			name: "invalid role",
			role: types.Role("overlord"),
			want: false,
		},
		{
			name: "empty role",
			role: types.Role(""),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.role.IsValid()).True()
			} else {
				gt.B(t, tt.role.IsValid()).False()
			}
		})
	}
}

func TestRole_Outranks(t *testing.T) {
	tests := []struct {
		name  string
		role  types.Role
		other types.Role
		want  bool
	}{
		{
			name:  "admin outranks manager",
			role:  types.RoleAdmin,
			other: types.RoleManager,
			want:  true,
		},
		{
			name:  "manager outranks activist",
			role:  types.RoleManager,
			other: types.RoleActivist,
			want:  true,
		},
		{
			name:  "equal rank does not outrank",
			role:  types.RoleManager,
			other: types.RoleManager,
			want:  false,
		},
		{
			name:  "lower rank does not outrank",
			role:  types.RoleActivist,
			other: types.RoleCoordinator,
			want:  false,
		},
		{
			name:  "unknown role outranks nothing",
			role:  types.Role("overlord"),
			other: types.RoleActivist,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.role.Outranks(tt.other)).True()
			} else {
				gt.B(t, tt.role.Outranks(tt.other)).False()
			}
		})
	}
}

func TestRole_CanDispatch(t *testing.T) {
	gt.B(t, types.RoleAdmin.CanDispatch()).True()
	gt.B(t, types.RoleManager.CanDispatch()).True()
	gt.B(t, types.RoleCoordinator.CanDispatch()).True()
	gt.B(t, types.RoleActivist.CanDispatch()).False()
	gt.B(t, types.Role("overlord").CanDispatch()).False()
}

func TestParseRole(t *testing.T) {
	role, err := types.ParseRole("coordinator")
	gt.NoError(t, err).Required()
	gt.Value(t, role).Equal(types.RoleCoordinator)

	_, err = types.ParseRole("overlord")
	gt.Error(t, err)
}

func TestParseTargetMode(t *testing.T) {
	mode, err := types.ParseTargetMode("selected")
	gt.NoError(t, err).Required()
	gt.Value(t, mode).Equal(types.TargetModeSelected)

	_, err = types.ParseTargetMode("everyone")
	gt.Error(t, err)
}

func TestAssignmentStatus(t *testing.T) {
	gt.B(t, types.AssignmentStatusUnread.IsValid()).True()
	gt.B(t, types.AssignmentStatusRead.IsValid()).True()
	gt.B(t, types.AssignmentStatusArchived.IsValid()).True()
	gt.B(t, types.AssignmentStatus("pending").IsValid()).False()

	status, err := types.ParseAssignmentStatus("read")
	gt.NoError(t, err).Required()
	gt.Value(t, status).Equal(types.AssignmentStatusRead)
}
