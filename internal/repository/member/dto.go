package member

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	dommember "github.com/stonesoup-hq/soupsearch/internal/domain/member"
)

// Hash field names; also FT index attribute names.
const (
	fieldID          = "id"
	fieldCauldronID  = "cauldron_id"
	fieldName        = "name"
	fieldBio         = "bio"
	fieldTitle       = "title"
	fieldCompany     = "company"
	fieldLocation    = "location"
	fieldExperience  = "years_of_experience"
	fieldHourlyRate  = "hourly_rate"
	fieldSkills      = "skills"
	fieldExpertise   = "expertise_areas"
	fieldIndustries  = "industries"
	fieldIsActive    = "is_active"
	fieldIsVerified  = "is_verified"
	fieldIsAvailable = "is_available"
	fieldLinkedIn    = "linkedin_url"
	fieldGitHub      = "github_url"
	fieldTwitter     = "twitter_url"
	fieldWebsite     = "website_url"
	fieldPortfolio   = "portfolio_urls"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
	fieldLastActive  = "last_active_at"
	// fieldSkillText duplicates skills+expertise as a TEXT field so
	// keyword queries rank them; the TAG copies keep exact filtering.
	fieldSkillText = "skill_text"
	fieldVector    = "__vector"
)

// returnFields excludes the vector: result mapping never needs it.
var returnFields = []string{
	fieldID, fieldCauldronID, fieldName, fieldBio, fieldTitle,
	fieldCompany, fieldLocation, fieldExperience, fieldHourlyRate,
	fieldSkills, fieldExpertise, fieldIndustries,
	fieldIsActive, fieldIsVerified, fieldIsAvailable,
	fieldLinkedIn, fieldGitHub, fieldTwitter, fieldWebsite, fieldPortfolio,
	fieldCreatedAt, fieldUpdatedAt, fieldLastActive,
}

// buildHashFields maps a member onto flat hash fields.
func buildHashFields(m *dommember.Member) map[string]string {
	fields := map[string]string{
		fieldID:          m.ID,
		fieldCauldronID:  m.CauldronID,
		fieldName:        m.Name,
		fieldSkills:      strings.Join(m.Skills, ","),
		fieldExpertise:   strings.Join(m.ExpertiseAreas, ","),
		fieldIndustries:  strings.Join(m.Industries, ","),
		fieldIsActive:    boolTag(m.IsActive),
		fieldIsVerified:  boolTag(m.IsVerified),
		fieldIsAvailable: boolTag(m.IsAvailable),
		fieldCreatedAt:   strconv.FormatInt(m.CreatedAt.Unix(), 10),
		fieldUpdatedAt:   strconv.FormatInt(m.UpdatedAt.Unix(), 10),
		fieldSkillText:   strings.Join(append(append([]string{}, m.Skills...), m.ExpertiseAreas...), " "),
	}

	if m.Bio != "" {
		fields[fieldBio] = m.Bio
	}
	if m.Title != "" {
		fields[fieldTitle] = m.Title
	}
	if m.Company != "" {
		fields[fieldCompany] = m.Company
	}
	if m.Location != "" {
		fields[fieldLocation] = m.Location
	}
	if m.YearsOfExperience > 0 {
		fields[fieldExperience] = strconv.FormatFloat(m.YearsOfExperience, 'f', -1, 64)
	}
	if m.HourlyRate > 0 {
		fields[fieldHourlyRate] = strconv.FormatFloat(m.HourlyRate, 'f', -1, 64)
	}
	if m.Links.LinkedIn != "" {
		fields[fieldLinkedIn] = m.Links.LinkedIn
	}
	if m.Links.GitHub != "" {
		fields[fieldGitHub] = m.Links.GitHub
	}
	if m.Links.Twitter != "" {
		fields[fieldTwitter] = m.Links.Twitter
	}
	if m.Links.Website != "" {
		fields[fieldWebsite] = m.Links.Website
	}
	if len(m.Links.Portfolio) > 0 {
		fields[fieldPortfolio] = strings.Join(m.Links.Portfolio, ",")
	}
	if !m.LastActiveAt.IsZero() {
		fields[fieldLastActive] = strconv.FormatInt(m.LastActiveAt.Unix(), 10)
	}
	if m.HasEmbedding() {
		fields[fieldVector] = string(vectorToBytes(m.ProfileEmbedding))
	}

	return fields
}

// parseHashFields reconstructs a member from flat hash fields.
func parseHashFields(fields map[string]string) (dommember.Member, error) {
	m := dommember.Member{
		ID:             fields[fieldID],
		CauldronID:     fields[fieldCauldronID],
		Name:           fields[fieldName],
		Bio:            fields[fieldBio],
		Title:          fields[fieldTitle],
		Company:        fields[fieldCompany],
		Location:       fields[fieldLocation],
		Skills:         splitList(fields[fieldSkills]),
		ExpertiseAreas: splitList(fields[fieldExpertise]),
		Industries:     splitList(fields[fieldIndustries]),
		IsActive:       fields[fieldIsActive] == "true",
		IsVerified:     fields[fieldIsVerified] == "true",
		IsAvailable:    fields[fieldIsAvailable] == "true",
		Links: dommember.SocialLinks{
			LinkedIn:  fields[fieldLinkedIn],
			GitHub:    fields[fieldGitHub],
			Twitter:   fields[fieldTwitter],
			Website:   fields[fieldWebsite],
			Portfolio: splitList(fields[fieldPortfolio]),
		},
		CreatedAt:    parseUnix(fields[fieldCreatedAt]),
		UpdatedAt:    parseUnix(fields[fieldUpdatedAt]),
		LastActiveAt: parseUnix(fields[fieldLastActive]),
	}

	if v := fields[fieldExperience]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return dommember.Member{}, err
		}
		m.YearsOfExperience = f
	}
	if v := fields[fieldHourlyRate]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return dommember.Member{}, err
		}
		m.HourlyRate = f
	}
	if v := fields[fieldVector]; v != "" {
		m.ProfileEmbedding = bytesToVector([]byte(v))
	}

	return m, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func parseUnix(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(b []byte) []float32 {
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
