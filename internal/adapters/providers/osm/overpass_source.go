package osm

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/google/uuid"
	"github.com/serjvanilla/go-overpass"
	"github.com/ttacon/libphonenumber"
)

// SourceName tags every imported row so upserts can key on (source, external_id).
const SourceName = "osm"

// querier is the part of overpass.Client the source needs.
type querier interface {
	Query(query string) (overpass.Result, error)
}

// tagCategories maps OSM key=value pairs to directory categories.
var tagCategories = map[string]string{
	"amenity=pharmacy":         entities.CategoryPharmacie,
	"amenity=hospital":         entities.CategoryHopital,
	"amenity=clinic":           entities.CategoryHopital,
	"amenity=doctors":          entities.CategoryHopital,
	"amenity=school":           entities.CategoryEcole,
	"amenity=college":          entities.CategoryEcole,
	"amenity=university":       entities.CategoryEcole,
	"amenity=kindergarten":     entities.CategoryEcole,
	"amenity=townhall":         entities.CategoryMairie,
	"amenity=police":           entities.CategoryPolice,
	"amenity=marketplace":      entities.CategoryMarche,
	"shop=supermarket":         entities.CategoryMarche,
	"amenity=bank":             entities.CategoryBanque,
	"amenity=atm":              entities.CategoryBanque,
	"amenity=bus_station":      entities.CategoryTransport,
	"amenity=taxi":             entities.CategoryTransport,
	"amenity=ferry_terminal":   entities.CategoryTransport,
	"tourism=hotel":            entities.CategoryHotel,
	"tourism=guest_house":      entities.CategoryHotel,
	"amenity=restaurant":       entities.CategoryRestaurant,
	"amenity=fast_food":        entities.CategoryRestaurant,
	"amenity=cafe":             entities.CategoryRestaurant,
	"amenity=place_of_worship": entities.CategoryLieuCulte,
}

// OverpassSource reads amenity nodes from an Overpass API endpoint.
type OverpassSource struct {
	client      querier
	timeout     time.Duration
	phoneRegion string
}

// NewOverpassSource creates a POI source for the given Overpass endpoint.
func NewOverpassSource(endpoint string, timeout time.Duration, phoneRegion string) *OverpassSource {
	httpClient := &http.Client{
		Timeout: timeout,
	}
	client := overpass.NewWithSettings(endpoint, 1, httpClient)
	return &OverpassSource{
		client:      &client,
		timeout:     timeout,
		phoneRegion: strings.ToUpper(phoneRegion),
	}
}

// FetchPOIs implements providers.POISource.
func (s *OverpassSource) FetchPOIs(ctx context.Context, bbox providers.BoundingBox) ([]*entities.PointOfInterest, error) {
	type outcome struct {
		result overpass.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := s.client.Query(BuildQuery(bbox, s.timeout))
		done <- outcome{result, err}
	}()

	var result overpass.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("overpass query failed: %w", out.err)
		}
		result = out.result
	}

	ids := make([]int64, 0, len(result.Nodes))
	for id := range result.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	pois := make([]*entities.PointOfInterest, 0, len(ids))
	for _, id := range ids {
		if poi := s.mapNode(result.Nodes[id]); poi != nil {
			pois = append(pois, poi)
		}
	}
	return pois, nil
}

// BuildQuery renders the Overpass QL request for every mapped tag inside bbox.
func BuildQuery(bbox providers.BoundingBox, timeout time.Duration) string {
	byKey := map[string][]string{}
	for tag := range tagCategories {
		kv := strings.SplitN(tag, "=", 2)
		byKey[kv[0]] = append(byKey[kv[0]], kv[1])
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	area := fmt.Sprintf("%g,%g,%g,%g", bbox.South, bbox.West, bbox.North, bbox.East)
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];(", int(timeout.Seconds()))
	for _, k := range keys {
		values := byKey[k]
		sort.Strings(values)
		fmt.Fprintf(&b, `node["%s"~"^(%s)$"]["name"](%s);`, k, strings.Join(values, "|"), area)
	}
	b.WriteString(");out body;")
	return b.String()
}

func (s *OverpassSource) mapNode(node *overpass.Node) *entities.PointOfInterest {
	if node == nil {
		return nil
	}
	category := CategoryForTags(node.Tags)
	name := firstTag(node.Tags, "name:fr", "name")
	if category == "" || name == "" {
		return nil
	}

	externalID := fmt.Sprintf("node/%d", node.ID)
	lat, lon := node.Lat, node.Lon
	return &entities.PointOfInterest{
		ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.openstreetmap.org/"+externalID)).String(),
		Name:        name,
		Category:    category,
		Address:     formatAddress(node.Tags),
		Phone:       NormalizePhone(firstTag(node.Tags, "phone", "contact:phone"), s.phoneRegion),
		Description: describe(node.Tags),
		Latitude:    &lat,
		Longitude:   &lon,
		Source:      SourceName,
		ExternalID:  externalID,
	}
}

// CategoryForTags returns the directory category for a tag set, or "".
func CategoryForTags(tags map[string]string) string {
	for _, key := range []string{"amenity", "shop", "tourism"} {
		if v, ok := tags[key]; ok {
			if c, ok := tagCategories[key+"="+v]; ok {
				return c
			}
		}
	}
	return ""
}

// NormalizePhone formats a phone number as E.164. Numbers that cannot be
// parsed are returned trimmed; only the first of several ";"-separated
// numbers is kept.
func NormalizePhone(raw, region string) string {
	raw = strings.TrimSpace(strings.SplitN(raw, ";", 2)[0])
	if raw == "" {
		return ""
	}
	num, err := libphonenumber.Parse(raw, region)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return raw
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}

func formatAddress(tags map[string]string) string {
	street := strings.TrimSpace(strings.Join(nonEmpty(tags["addr:housenumber"], tags["addr:street"]), " "))
	return strings.Join(nonEmpty(street, tags["addr:suburb"], tags["addr:city"]), ", ")
}

func describe(tags map[string]string) string {
	parts := nonEmpty(tags["description"])
	if h := tags["opening_hours"]; h != "" {
		parts = append(parts, "Horaires : "+h)
	}
	return strings.Join(parts, ". ")
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(tags[k]); v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

var _ providers.POISource = (*OverpassSource)(nil)
