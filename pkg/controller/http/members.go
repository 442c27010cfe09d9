package http

import (
	"net/http"

	"github.com/mateh-lab/taskcast/pkg/domain/model"
	"github.com/mateh-lab/taskcast/pkg/usecase"
)

func toMemberResponse(m *model.Member) memberResponse {
	return memberResponse{
		ID:     string(m.ID),
		Name:   m.Name,
		Role:   string(m.Role),
		UnitID: string(m.UnitID),
	}
}

type membersResponse struct {
	Members []memberResponse `json:"members"`
}

// membersHandler lists the member directory for recipient selection
func membersHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		members, err := uc.Members.List(r.Context())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		resp := membersResponse{Members: make([]memberResponse, len(members))}
		for i, m := range members {
			resp.Members[i] = toMemberResponse(m)
		}

		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}
