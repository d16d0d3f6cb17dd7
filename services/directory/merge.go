package directory

import "mindease/models"

// mergeRecord builds one canonical record from a directory row and its
// matching clinic record, if any.
//
// Identity-class fields (name, specialty, degree, experience, image,
// location, contact) always follow the clinic when it has a value: the
// clinic is the system of record for who the therapist is. Protected fields
// (fee, about) belong to our own store: the clinic value only fills a gap
// and never overwrites what an administrator has set.
func mergeRecord(row models.DirectoryProvider, clinic *models.ClinicProvider) models.ProviderRecord {
	rec := models.ProviderRecord{
		ID:         row.ID,
		ExternalID: row.ExternalID,
		Available:  true,
		Geo:        row.Geo,
	}

	var c models.ClinicProvider
	if clinic != nil {
		c = *clinic
		rec.Available = c.Available
		if g := clinicGeo(clinic); g != nil {
			rec.Geo = g
		}
	}

	rec.Name = identityField(c.Name, row.Name, "")
	rec.Specialty = identityField(c.Specialty, row.Specialty, models.DefaultSpecialty)
	rec.Degree = identityField(c.Degree, row.Degree, models.DefaultDegree)
	rec.Experience = identityField(c.Experience, row.Experience, models.DefaultExperience)
	rec.ImageURL = identityField(c.ImageURL, row.ImageURL, "")
	rec.Location = identityField(c.Address, row.Location, models.DefaultLocation)
	rec.Email = identityField(c.Email, row.Email, "")

	rec.About = protectedField(row.About, c.About, models.DefaultAbout)
	rec.Fee = protectedFee(row.Fee, c.Fee)

	return rec
}

// identityField prefers the clinic value, then the row's own copy, then the
// fixed default.
func identityField(clinic, own, def string) string {
	if clinic != "" {
		return clinic
	}
	if own != "" {
		return own
	}
	return def
}

// protectedField keeps the row's value whenever one is set; the clinic value
// only fills an empty field.
func protectedField(own, clinic, def string) string {
	if own != "" {
		return own
	}
	if clinic != "" {
		return clinic
	}
	return def
}

func protectedFee(own, clinic float64) float64 {
	if own > 0 {
		return own
	}
	if clinic > 0 {
		return clinic
	}
	return models.DefaultFee
}

func clinicGeo(c *models.ClinicProvider) *models.GeoPoint {
	if c == nil || (c.Latitude == 0 && c.Longitude == 0) {
		return nil
	}
	return &models.GeoPoint{Type: "Point", Coordinates: []float64{c.Longitude, c.Latitude}}
}
