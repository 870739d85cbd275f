package form

import "github.com/amishk599/cvbuilder/internal/model"

// Step is a wizard page.
type Step int

const (
	StepPersonalInfo Step = iota
	StepEducation
	StepExperience
	StepSkillsLinks
)

// LastStep is the final wizard page.
const LastStep = StepSkillsLinks

var stepTitles = [...]string{
	StepPersonalInfo: "Personal Info",
	StepEducation:    "Education",
	StepExperience:   "Experience",
	StepSkillsLinks:  "Skills & Links",
}

func (s Step) String() string {
	if s < 0 || s > LastStep {
		return "Unknown"
	}
	return stepTitles[s]
}

// StepFields lists the draft fields edited on each step.
var StepFields = map[Step][]string{
	StepPersonalInfo: {model.FieldName, model.FieldEmail},
	StepEducation:    {model.FieldEducation},
	StepExperience:   {model.FieldExperience},
	StepSkillsLinks: {
		model.FieldSkills, model.FieldGithub, model.FieldLinkedin,
		model.FieldLanguages, model.FieldHobbies, model.FieldJobDescription,
	},
}

func clampStep(s Step) Step {
	switch {
	case s < StepPersonalInfo:
		return StepPersonalInfo
	case s > LastStep:
		return LastStep
	default:
		return s
	}
}

// Step returns the current wizard page.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Advance moves to the next page, stopping at the last one.
func (c *Controller) Advance() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = clampStep(c.step + 1)
	return c.step
}

// Retreat moves to the previous page, stopping at the first one.
func (c *Controller) Retreat() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = clampStep(c.step - 1)
	return c.step
}

// SetStep jumps to s, clamped into range.
func (c *Controller) SetStep(s Step) Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = clampStep(s)
	return c.step
}
