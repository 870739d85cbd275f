package model

import "encoding/json"

// Draft field names as sent to the backend.
const (
	FieldName           = "name"
	FieldEmail          = "email"
	FieldEducation      = "education"
	FieldExperience     = "experience"
	FieldSkills         = "skills"
	FieldGithub         = "github"
	FieldLinkedin       = "linkedin"
	FieldLanguages      = "languages"
	FieldHobbies        = "hobbies"
	FieldPhotoPath      = "photo_path"
	FieldJobDescription = "job_description"
)

// DraftFields lists every known draft field in form order.
var DraftFields = []string{
	FieldName, FieldEmail, FieldEducation, FieldExperience, FieldSkills,
	FieldGithub, FieldLinkedin, FieldLanguages, FieldHobbies,
	FieldPhotoPath, FieldJobDescription,
}

// Draft is the in-progress résumé. Every field is a plain string and the zero
// value is a valid, empty draft. Experience and education carry a line-based
// format that only the backend interprets.
type Draft struct {
	Name           string `json:"name" yaml:"name"`
	Email          string `json:"email" yaml:"email"`
	Education      string `json:"education" yaml:"education"`
	Experience     string `json:"experience" yaml:"experience"`
	Skills         string `json:"skills" yaml:"skills"`
	Github         string `json:"github" yaml:"github"`
	Linkedin       string `json:"linkedin" yaml:"linkedin"`
	Languages      string `json:"languages" yaml:"languages"`
	Hobbies        string `json:"hobbies" yaml:"hobbies"`
	PhotoPath      string `json:"photo_path" yaml:"photo_path"`
	JobDescription string `json:"job_description" yaml:"job_description"`

	// Extra holds fields set by name that the draft does not model. They are
	// sent alongside the known fields.
	Extra map[string]string `json:"-" yaml:"extra,omitempty"`
}

func (d *Draft) field(name string) *string {
	switch name {
	case FieldName:
		return &d.Name
	case FieldEmail:
		return &d.Email
	case FieldEducation:
		return &d.Education
	case FieldExperience:
		return &d.Experience
	case FieldSkills:
		return &d.Skills
	case FieldGithub:
		return &d.Github
	case FieldLinkedin:
		return &d.Linkedin
	case FieldLanguages:
		return &d.Languages
	case FieldHobbies:
		return &d.Hobbies
	case FieldPhotoPath:
		return &d.PhotoPath
	case FieldJobDescription:
		return &d.JobDescription
	}
	return nil
}

// Set overwrites the named field. Names the draft does not model land in Extra.
func (d *Draft) Set(name, value string) {
	if p := d.field(name); p != nil {
		*p = value
		return
	}
	if d.Extra == nil {
		d.Extra = make(map[string]string)
	}
	d.Extra[name] = value
}

// Get returns the named field, or "" if it was never set.
func (d Draft) Get(name string) string {
	if p := d.field(name); p != nil {
		return *p
	}
	return d.Extra[name]
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	if d.Extra != nil {
		extra := make(map[string]string, len(d.Extra))
		for k, v := range d.Extra {
			extra[k] = v
		}
		d.Extra = extra
	}
	return d
}

// MarshalJSON flattens Extra into the payload. Known fields win on collision.
func (d Draft) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(DraftFields)+len(d.Extra))
	for k, v := range d.Extra {
		out[k] = v
	}
	for _, name := range DraftFields {
		out[name] = d.Get(name)
	}
	return json.Marshal(out)
}
