package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pradyutnair/finance-sub003/src/models"
	"github.com/pradyutnair/finance-sub003/src/rules"
)

func CreateTransactionRule(store RuleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(string)
		var req struct {
			Name           string             `json:"name"`
			Description    string             `json:"description"`
			Enabled        *bool              `json:"enabled"`
			Priority       int                `json:"priority"`
			Conditions     []models.Condition `json:"conditions"`
			ConditionLogic string             `json:"conditionLogic"`
			Actions        []models.Action    `json:"actions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction rule request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		rule := &models.TransactionRule{
			UserID:         userID,
			Name:           req.Name,
			Description:    req.Description,
			Enabled:        req.Enabled == nil || *req.Enabled,
			Priority:       req.Priority,
			Conditions:     req.Conditions,
			ConditionLogic: req.ConditionLogic,
			Actions:        req.Actions,
		}
		if err := rule.Validate(); err != nil {
			log.Printf("ERROR: Invalid transaction rule from user %s: %v", userID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		created, err := store.CreateTransactionRule(r.Context(), rule)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction rule for user %s: %v", userID, err)
			http.Error(w, "failed to create transaction rule", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created transaction rule %s for user %s, name %s", created.ID, userID, created.Name)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllTransactionRules(store RuleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(string)
		ruleSet, err := store.ListTransactionRules(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get transaction rules for user %s: %v", userID, err)
			http.Error(w, "failed to get transaction rules", http.StatusInternalServerError)
			return
		}
		if ruleSet == nil {
			ruleSet = []models.TransactionRule{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ruleSet)
	}
}

func GetTransactionRuleByID(store RuleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(string)
		ruleID := chi.URLParam(r, "rule_id")
		rule, err := store.GetTransactionRuleByID(r.Context(), userID, ruleID)
		if errors.Is(err, rules.ErrRuleNotFound) {
			http.Error(w, "transaction rule not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to get transaction rule %s for user %s: %v", ruleID, userID, err)
			http.Error(w, "failed to get transaction rule", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rule)
	}
}

func UpdateTransactionRule(store RuleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(string)
		ruleID := chi.URLParam(r, "rule_id")
		var patch models.UpdateRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			log.Printf("ERROR: Failed to decode update transaction rule request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		updated, err := store.UpdateTransactionRule(r.Context(), userID, ruleID, patch)
		if errors.Is(err, rules.ErrRuleNotFound) {
			http.Error(w, "transaction rule not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to update transaction rule %s for user %s: %v", ruleID, userID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("INFO: Updated transaction rule %s for user %s", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTransactionRule(store RuleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(string)
		ruleID := chi.URLParam(r, "rule_id")
		err := store.DeleteTransactionRule(r.Context(), userID, ruleID)
		if errors.Is(err, rules.ErrRuleNotFound) {
			http.Error(w, "transaction rule not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to delete transaction rule %s for user %s: %v", ruleID, userID, err)
			http.Error(w, "failed to delete transaction rule", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted transaction rule %s for user %s", ruleID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "transaction rule deleted"})
	}
}

func ApplyTransactionRule(applier RuleApplier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(string)
		ruleID := chi.URLParam(r, "rule_id")

		// An empty body means default options; the length may be unknown
		// (chunked transfer), so decode and treat EOF as empty.
		var opts rules.ApplyOptions
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
			log.Printf("ERROR: Failed to decode apply rule request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		result, err := applier.ApplyRule(r.Context(), userID, ruleID, opts)
		if errors.Is(err, rules.ErrRuleNotFound) {
			http.Error(w, "transaction rule not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, rules.ErrRuleDisabled) {
			http.Error(w, "transaction rule is disabled", http.StatusConflict)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to apply transaction rule %s for user %s: %v", ruleID, userID, err)
			http.Error(w, "failed to apply transaction rule", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
