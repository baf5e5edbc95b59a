package services

import "github.com/civicpulse/backend/internal/domain/entities"

// categoryHints maps each POI category to lowercase phrases that reveal it in
// a citizen question. Matching is plain substring search.
var categoryHints = map[string][]string{
	entities.CategoryPharmacie:  {"pharmacie", "médicament", "medicament", "ordonnance"},
	entities.CategoryHopital:    {"hôpital", "hopital", "clinique", "urgence", "médecin", "medecin", "centre de santé", "centre de sante", "maternité"},
	entities.CategoryEcole:      {"école", "ecole", "lycée", "lycee", "collège", "college", "université", "universite"},
	entities.CategoryMairie:     {"mairie", "état civil", "etat civil", "acte de naissance", "commune", "administration"},
	entities.CategoryPolice:     {"police", "commissariat", "gendarmerie"},
	entities.CategoryMarche:     {"marché", "marche ", "supermarché", "boutique"},
	entities.CategoryBanque:     {"banque", "distributeur", "guichet", "retrait d'argent"},
	entities.CategoryTransport:  {"gare", "bus", "taxi", "transport", "arrêt"},
	entities.CategoryHotel:      {"hôtel", "hotel", "hébergement", "hebergement", "auberge"},
	entities.CategoryRestaurant: {"restaurant", "manger", "maquis", "café"},
	entities.CategoryLieuCulte:  {"mosquée", "mosquee", "église", "eglise", "prière", "priere"},
}
