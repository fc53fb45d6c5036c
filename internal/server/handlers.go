package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/splitledger/splitledger/internal/service"
)

// Users

type syncUserRequest struct {
	ExternalID string `json:"externalId"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	ImageURL   string `json:"imageUrl"`
}

func (s *Server) handleSyncUser(w http.ResponseWriter, r *http.Request) {
	var req syncUserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := s.users.Sync(r.Context(), req.ExternalID, req.Email, req.FullName, req.ImageURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleGetUserByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Groups

type createGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CreatedBy   string   `json:"createdBy"`
	MemberIDs   []string `json:"memberIds"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	group, err := s.groups.Create(r.Context(), req.Name, req.Description, req.CreatedBy, req.MemberIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	view, err := s.groups.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.List(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

type updateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req updateGroupRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	group, err := s.groups.Update(r.Context(), mux.Vars(r)["id"], req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addMemberRequest struct {
	// Identifier is a user ID, external auth ID, or email address.
	Identifier string `json:"identifier"`
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := s.groups.AddMember(r.Context(), mux.Vars(r)["id"], req.Identifier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := s.groups.RemoveMember(r.Context(), vars["id"], vars["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Expenses

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var input service.CreateExpenseInput
	if err := decode(r, &input); err != nil {
		writeError(w, err)
		return
	}
	expense, err := s.expenses.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenses.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleListGroupExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.ListByGroup(r.Context(), mux.Vars(r)["groupId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleListUserExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.ListByUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateExpenseInput
	if err := decode(r, &input); err != nil {
		writeError(w, err)
		return
	}
	expense, err := s.expenses.Update(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Settlements

func (s *Server) handleCreateSettlement(w http.ResponseWriter, r *http.Request) {
	var input service.CreateSettlementInput
	if err := decode(r, &input); err != nil {
		writeError(w, err)
		return
	}
	settlement, err := s.settlements.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, settlement)
}

func (s *Server) handleGetSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, err := s.settlements.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlement)
}

func (s *Server) handleListGroupSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.settlements.ListByGroup(r.Context(), mux.Vars(r)["groupId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlements)
}

func (s *Server) handleListUserSettlements(w http.ResponseWriter, r *http.Request) {
	result, err := s.settlements.ListByUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteSettlement(w http.ResponseWriter, r *http.Request) {
	if err := s.settlements.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Balances

func (s *Server) handleUserBalances(w http.ResponseWriter, r *http.Request) {
	result, err := s.balances.GetUserBalances(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGroupBalances returns the full debt list, or one member's view of it
// when the user query parameter is set.
func (s *Server) handleGroupBalances(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	if userID := r.URL.Query().Get("user"); userID != "" {
		view, err := s.balances.GetGroupUserView(r.Context(), groupID, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
		return
	}

	debts, err := s.balances.GetGroupBalances(r.Context(), groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, debts)
}

func (s *Server) handleSimplify(w http.ResponseWriter, r *http.Request) {
	transfers, err := s.balances.Simplify(r.Context(), mux.Vars(r)["groupId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transfers)
}

func (s *Server) handleConsolidate(w http.ResponseWriter, r *http.Request) {
	result, err := s.balances.Consolidate(r.Context(), mux.Vars(r)["groupId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
