package domain

// TitleColors is the colour triple a hero title drives while it is displayed.
type TitleColors struct {
	Particle string `yaml:"particle" json:"particle"`
	Text     string `yaml:"text" json:"text"`
	Border   string `yaml:"border" json:"border"`
	Name     string `yaml:"name" json:"name"`
}

type Title struct {
	Text   string      `yaml:"text" json:"text"`
	Colors TitleColors `yaml:"colors" json:"colors"`
}

type Tech struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
}

// ProfileView selects which side of the about section is shown.
type ProfileView string

const (
	ProfilePersonal  ProfileView = "personal"
	ProfileDeveloper ProfileView = "developer"
)

func (v ProfileView) Toggle() ProfileView {
	if v == ProfilePersonal {
		return ProfileDeveloper
	}
	return ProfilePersonal
}

type About struct {
	Personal  []string `yaml:"personal" json:"personal"`
	Developer []string `yaml:"developer" json:"developer"`
}

func (a About) Paragraphs(v ProfileView) []string {
	if v == ProfilePersonal {
		return a.Personal
	}
	return a.Developer
}

type Profile struct {
	Name      string   `yaml:"name" json:"name"`
	Handle    string   `yaml:"handle" json:"handle"`
	Tagline   string   `yaml:"tagline" json:"tagline"`
	Titles    []Title  `yaml:"titles" json:"titles"`
	About     About    `yaml:"about" json:"about"`
	TechStack []Tech   `yaml:"tech_stack" json:"tech_stack"`
	Links     []string `yaml:"links" json:"links"`
}

type Project struct {
	ID             int      `yaml:"id" json:"id"`
	Title          string   `yaml:"title" json:"title"`
	ImageURL       string   `yaml:"image_url" json:"imageUrl"`
	Description    string   `yaml:"description" json:"description"`
	TechStack      []string `yaml:"tech_stack" json:"techStack"`
	GithubURL      string   `yaml:"github_url,omitempty" json:"githubUrl,omitempty"`
	LivePreviewURL string   `yaml:"live_preview_url,omitempty" json:"livePreviewUrl,omitempty"`
}
