package services

import (
	"fmt"
	"strings"

	"github.com/civicpulse/backend/internal/domain/entities"
)

var (
	reportingHints = []string{"signaler", "signalement", "problème", "probleme", "panne", "déclarer"}
	routingHints   = []string{"itinéraire", "itineraire", "route", "aller", "chemin", "comment rejoindre"}
)

const (
	reportingAnswer = "Pour signaler un problème, ouvrez la carte, touchez l'emplacement concerné puis choisissez « Signaler ». " +
		"Indiquez le type de problème, ajoutez une courte description et, si possible, une photo. " +
		"Vous pourrez suivre l'état de votre signalement (nouveau, en cours, résolu) depuis votre espace."

	routingNoSuggestionAnswer = "Pour obtenir un itinéraire, sélectionnez un lieu sur la carte puis touchez « Itinéraire ». " +
		"Précisez le lieu recherché (pharmacie, hôpital, mairie…) pour que je puisse vous en proposer."

	noMatchAnswer = "Je n'ai pas trouvé de lieu correspondant précisément à votre demande. " +
		"Essayez avec un autre mot-clé (par exemple « pharmacie », « mairie » ou « marché »)."

	needContextAnswer = "Pouvez-vous préciser votre demande ? Indiquez le type de lieu recherché ou le problème que vous souhaitez signaler, " +
		"et partagez votre position pour des résultats plus proches."
)

// FallbackAnswer builds the templated French answer used when no external
// model phrased one.
func FallbackAnswer(message string, suggestions []entities.Suggestion, summary entities.ReportSummary) string {
	text := strings.ToLower(message)

	if containsAny(text, reportingHints) {
		return reportingAnswer
	}
	if containsAny(text, routingHints) {
		if len(suggestions) == 0 {
			return routingNoSuggestionAnswer
		}
		return fmt.Sprintf("Pour vous rendre à %s, sélectionnez-le sur la carte puis touchez « Itinéraire ».\n%s",
			suggestions[0].Name, suggestionList(suggestions))
	}
	if len(suggestions) > 0 {
		return "Voici les lieux qui correspondent à votre demande :\n" + suggestionList(suggestions)
	}
	if summary.Total > 0 {
		return noMatchAnswer
	}
	return needContextAnswer
}

func suggestionList(suggestions []entities.Suggestion) string {
	lines := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		line := "- " + s.Name
		if s.Address != "" {
			line += ", " + s.Address
		}
		if s.DistanceText != nil {
			line += " (" + *s.DistanceText + ")"
		}
		if s.Phone != "" {
			line += " - tél. " + s.Phone
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
