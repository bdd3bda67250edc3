package compliance

import (
	"fmt"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
)

// Phase transitions are unconstrained: any status may move to any other.

// SetPhaseStatus returns a new collection with one phase of one client updated.
// Setting the current status returns a collection equal to the input.
func SetPhaseStatus(clients []domain.Client, clientID, phaseID string, status domain.PhaseStatus) ([]domain.Client, domain.Client, error) {
	if !status.Valid() {
		return nil, domain.Client{}, domain.WrapError(domain.ErrInvalidInput, "set phase status", fmt.Errorf("unknown status %q", status))
	}
	idx, err := indexOfClient(clients, clientID)
	if err != nil {
		return nil, domain.Client{}, err
	}

	updated := clients[idx].Clone()
	found := false
	for i := range updated.Workflow {
		if updated.Workflow[i].ID == phaseID {
			updated.Workflow[i].Status = status
			found = true
			break
		}
	}
	if !found {
		return nil, domain.Client{}, domain.WrapError(domain.ErrNotFound, "set phase status", fmt.Errorf("client=%s phase=%s", clientID, phaseID))
	}

	out, err := ReplaceClient(clients, updated)
	if err != nil {
		return nil, domain.Client{}, err
	}
	return out, updated.Clone(), nil
}

// ToggleChecklistItem flips the completed flag of one checklist item.
func ToggleChecklistItem(clients []domain.Client, clientID, itemID string) ([]domain.Client, domain.Client, error) {
	idx, err := indexOfClient(clients, clientID)
	if err != nil {
		return nil, domain.Client{}, err
	}

	updated := clients[idx].Clone()
	found := false
	for i := range updated.Checklist {
		if updated.Checklist[i].ID == itemID {
			updated.Checklist[i].Completed = !updated.Checklist[i].Completed
			found = true
			break
		}
	}
	if !found {
		return nil, domain.Client{}, domain.WrapError(domain.ErrNotFound, "toggle checklist item", fmt.Errorf("client=%s item=%s", clientID, itemID))
	}

	out, err := ReplaceClient(clients, updated)
	if err != nil {
		return nil, domain.Client{}, err
	}
	return out, updated.Clone(), nil
}

// SetAnomalyCount records a confirmed anomaly count on one client.
func SetAnomalyCount(clients []domain.Client, clientID string, count int) ([]domain.Client, domain.Client, error) {
	if count < 0 {
		return nil, domain.Client{}, domain.WrapError(domain.ErrInvalidInput, "set anomaly count", fmt.Errorf("negative count %d", count))
	}
	idx, err := indexOfClient(clients, clientID)
	if err != nil {
		return nil, domain.Client{}, err
	}
	updated := clients[idx].Clone()
	updated.AnomalyCount = count

	out, err := ReplaceClient(clients, updated)
	if err != nil {
		return nil, domain.Client{}, err
	}
	return out, updated.Clone(), nil
}

// ReplaceClient returns a fresh collection where the client with updated.ID
// is replaced by a copy of updated. Every client in the result is a copy.
func ReplaceClient(clients []domain.Client, updated domain.Client) ([]domain.Client, error) {
	idx, err := indexOfClient(clients, updated.ID)
	if err != nil {
		return nil, err
	}
	out := domain.CloneClients(clients)
	out[idx] = updated.Clone()
	return out, nil
}

func FindClient(clients []domain.Client, clientID string) (domain.Client, error) {
	idx, err := indexOfClient(clients, clientID)
	if err != nil {
		return domain.Client{}, err
	}
	return clients[idx].Clone(), nil
}

func indexOfClient(clients []domain.Client, clientID string) (int, error) {
	for i := range clients {
		if clients[i].ID == clientID {
			return i, nil
		}
	}
	return -1, domain.WrapError(domain.ErrNotFound, "find client", fmt.Errorf("client=%s", clientID))
}
