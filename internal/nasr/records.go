package nasr

import (
	"github.com/cockroachdb/errors"

	"github.com/couchcryptid/navaid-service/internal/domain"
)

// ToAirport converts a parsed APT record.
func ToAirport(rec Record) (domain.Airport, error) {
	pos, err := position(rec)
	if err != nil {
		return domain.Airport{}, err
	}
	return domain.Airport{
		Identifier:   domain.NormalizeIdent(rec.Get(FieldIdentifier)),
		ICAO:         domain.NormalizeIdent(rec.Get(FieldICAO)),
		Name:         rec.Get(FieldName),
		City:         rec.Get(FieldCity),
		State:        rec.Get(FieldState),
		FacilityType: rec.Get(FieldFacilityType),
		SiteNumber:   rec.Get(FieldSiteNumber),
		Position:     pos,
	}, nil
}

// ToNavaid converts a parsed NAV1 record.
func ToNavaid(rec Record) (domain.Navaid, error) {
	pos, err := position(rec)
	if err != nil {
		return domain.Navaid{}, err
	}
	return domain.Navaid{
		Identifier: domain.NormalizeIdent(rec.Get(FieldIdentifier)),
		Name:       rec.Get(FieldName),
		Type:       domain.ParseNavaidType(rec.Get(FieldFacilityType)),
		City:       rec.Get(FieldCity),
		State:      rec.Get(FieldState),
		Position:   pos,
	}, nil
}

// ToFix converts a parsed FIX1 record.
func ToFix(rec Record) (domain.Fix, error) {
	pos, err := position(rec)
	if err != nil {
		return domain.Fix{}, err
	}
	return domain.Fix{
		Identifier: domain.NormalizeIdent(rec.Get(FieldIdentifier)),
		State:      rec.Get(FieldState),
		ICAORegion: rec.Get(FieldICAORegion),
		Category:   rec.Get(FieldCategory),
		Position:   pos,
	}, nil
}

func position(rec Record) (domain.GeoPoint, error) {
	lat, err := domain.DecodeLatitude(rec.Get(FieldLatitude))
	if err != nil {
		return domain.GeoPoint{}, errors.Wrap(err, FieldLatitude)
	}
	lon, err := domain.DecodeLongitude(rec.Get(FieldLongitude))
	if err != nil {
		return domain.GeoPoint{}, errors.Wrap(err, FieldLongitude)
	}
	return domain.NewGeoPoint(lat, lon)
}
