// Package roster folds the flat session list into one entry per participant.
// The roster is recomputed from scratch on every call rather than maintained
// incrementally; session counts are bounded by a single lab's usage, so the
// O(sessions) recompute is a deliberate simplicity trade.
package roster

import (
	"sort"

	"github.com/calderlab/cardia/internal/model"
)

// Aggregate builds the roster from the full session list. Records with no
// participant identity are skipped. Aliases from the local store overlay any
// alias embedded in a record. A training result, when present, is overlaid
// onto every participant: the backend reports one aggregate training run,
// not per-participant metrics.
func Aggregate(sessions []model.SessionRecord, aliases map[string]string, training *model.TrainingResult) []model.Participant {
	byID := make(map[string]*model.Participant)

	for _, session := range sessions {
		if session.ParticipantID == "" {
			continue
		}
		p, ok := byID[session.ParticipantID]
		if !ok {
			p = &model.Participant{ID: session.ParticipantID, Alias: session.Alias}
			byID[session.ParticipantID] = p
		}
		p.SessionCount++
		if !session.ECGStartTime.IsZero() && session.ECGStartTime.After(p.LastSessionAt) {
			p.LastSessionAt = session.ECGStartTime
		}
	}

	out := make([]model.Participant, 0, len(byID))
	for _, p := range byID {
		if alias, ok := aliases[p.ID]; ok && alias != "" {
			p.Alias = alias
		}
		p.EnrollmentProgress = enrollmentProgress(p.SessionCount)
		p.Training = training
		out = append(out, *p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// enrollmentProgress maps a session count onto [0,1], saturating once the
// enrollment target is reached.
func enrollmentProgress(sessionCount int) float64 {
	progress := float64(sessionCount) / float64(model.EnrollmentTargetSessions)
	if progress > 1 {
		return 1
	}
	return progress
}
