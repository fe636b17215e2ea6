package story

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	domstory "github.com/stonesoup-hq/soupsearch/internal/domain/story"
)

// Hash field names; also FT index attribute names.
const (
	fieldID          = "id"
	fieldCauldronID  = "cauldron_id"
	fieldTitle       = "title"
	fieldContent     = "content"
	fieldSummary     = "summary"
	fieldCategory    = "category"
	fieldStatus      = "status"
	fieldTags        = "tags"
	fieldSkills      = "skills"
	fieldCompany     = "company"
	fieldAIGenerated = "ai_generated"
	fieldViewCount   = "view_count"
	fieldLikeCount   = "like_count"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
	fieldOccurredAt  = "occurred_at"
	fieldAuthors     = "authors"
	// fieldTagText duplicates tags+skills as a TEXT field so keyword
	// queries rank them; the TAG copies keep exact-match filtering.
	fieldTagText = "tag_text"
	fieldVector  = "__vector"
)

// returnFields excludes the vector: result mapping never needs it.
var returnFields = []string{
	fieldID, fieldCauldronID, fieldTitle, fieldContent, fieldSummary,
	fieldCategory, fieldStatus, fieldTags, fieldSkills, fieldCompany,
	fieldAIGenerated, fieldViewCount, fieldLikeCount,
	fieldCreatedAt, fieldUpdatedAt, fieldOccurredAt, fieldAuthors,
}

// buildHashFields maps a story onto flat hash fields.
func buildHashFields(s *domstory.Story) map[string]string {
	fields := map[string]string{
		fieldID:          s.ID,
		fieldCauldronID:  s.CauldronID,
		fieldTitle:       s.Title,
		fieldContent:     s.Content,
		fieldCategory:    string(s.Category),
		fieldStatus:      string(s.Status),
		fieldTags:        strings.Join(s.Tags, ","),
		fieldSkills:      strings.Join(s.Skills, ","),
		fieldAIGenerated: boolTag(s.AIGenerated),
		fieldViewCount:   strconv.Itoa(s.ViewCount),
		fieldLikeCount:   strconv.Itoa(s.LikeCount),
		fieldCreatedAt:   strconv.FormatInt(s.CreatedAt.Unix(), 10),
		fieldUpdatedAt:   strconv.FormatInt(s.UpdatedAt.Unix(), 10),
		fieldTagText:     strings.Join(append(append([]string{}, s.Tags...), s.Skills...), " "),
	}

	if s.Summary != "" {
		fields[fieldSummary] = s.Summary
	}
	if s.Company != "" {
		fields[fieldCompany] = s.Company
	}
	if !s.OccurredAt.IsZero() {
		fields[fieldOccurredAt] = strconv.FormatInt(s.OccurredAt.Unix(), 10)
	}
	if len(s.Authors) > 0 {
		fields[fieldAuthors] = encodeAuthors(s.Authors)
	}
	if s.HasEmbedding() {
		fields[fieldVector] = string(vectorToBytes(s.Embedding))
	}

	return fields
}

// parseHashFields reconstructs a story from flat hash fields.
func parseHashFields(fields map[string]string) (domstory.Story, error) {
	s := domstory.Story{
		ID:          fields[fieldID],
		CauldronID:  fields[fieldCauldronID],
		Title:       fields[fieldTitle],
		Content:     fields[fieldContent],
		Summary:     fields[fieldSummary],
		Category:    domstory.Category(fields[fieldCategory]),
		Status:      domstory.Status(fields[fieldStatus]),
		Company:     fields[fieldCompany],
		AIGenerated: fields[fieldAIGenerated] == "true",
		Tags:        splitList(fields[fieldTags]),
		Skills:      splitList(fields[fieldSkills]),
		Authors:     decodeAuthors(fields[fieldAuthors]),
		CreatedAt:   parseUnix(fields[fieldCreatedAt]),
		UpdatedAt:   parseUnix(fields[fieldUpdatedAt]),
		OccurredAt:  parseUnix(fields[fieldOccurredAt]),
	}

	if v := fields[fieldViewCount]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domstory.Story{}, err
		}
		s.ViewCount = n
	}
	if v := fields[fieldLikeCount]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domstory.Story{}, err
		}
		s.LikeCount = n
	}
	if v := fields[fieldVector]; v != "" {
		s.Embedding = bytesToVector([]byte(v))
	}

	return s, nil
}

// encodeAuthors packs authorships as "memberID:role" pairs.
func encodeAuthors(authors []domstory.Authorship) string {
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		parts = append(parts, a.MemberID+":"+a.Role)
	}
	return strings.Join(parts, ",")
}

func decodeAuthors(s string) []domstory.Authorship {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	authors := make([]domstory.Authorship, 0, len(parts))
	for _, p := range parts {
		id, role, ok := strings.Cut(p, ":")
		if !ok || id == "" {
			continue
		}
		authors = append(authors, domstory.Authorship{MemberID: id, Role: role})
	}
	return authors
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
