package domain

// ZoneRefs identifies the NWS county and forecast zone covering a point,
// extracted from a points lookup. The two identifiers travel together: a
// points response missing either yields an empty ZoneRefs, meaning no
// alert areas are determinable for the point.
type ZoneRefs struct {
	CountyID       string
	ForecastZoneID string
}

// Empty reports whether the point resolved to no usable zone identifiers.
func (z ZoneRefs) Empty() bool {
	return z.CountyID == "" && z.ForecastZoneID == ""
}
