package githubapi

import (
	"time"

	"github.com/google/go-github/v39/github"
)

// Repository carries the subset of GitHub repository metadata the toolkit consumes.
type Repository struct {
	Owner         string
	Name          string
	FullName      string
	Description   string
	Homepage      string
	HTMLURL       string
	CloneURL      string
	SSHURL        string
	DefaultBranch string
	Language      string
	Stars         int
	Forks         int
	SizeKB        int
	Topics        []string
	LicenseKey    string
	LicenseName   string
	Private       bool
	Fork          bool
	Archived      bool
	PushedAt      time.Time
}

// User describes a GitHub user account.
type User struct {
	Login string
	Name  string
	Type  string
}

// Organization describes a GitHub organization account.
type Organization struct {
	Login              string
	Name               string
	Description        string
	HTMLURL            string
	Blog               string
	Location           string
	AvatarURL          string
	PublicRepositories int
}

// License describes a license template from the GitHub licenses API.
type License struct {
	Key  string
	Name string
	Body string
}

// ContentFile describes a SHA-versioned file fetched through the contents API.
type ContentFile struct {
	Path    string
	SHA     string
	Content string
}

// TreeEntry describes one node of a repository tree listing.
type TreeEntry struct {
	Path string
	Type string
}

// Tree entry type values returned by the git trees API.
const (
	TreeEntryTypeBlob = "blob"
	TreeEntryTypeTree = "tree"
)

// WorkflowFile describes a GitHub Actions workflow registered on a repository.
type WorkflowFile struct {
	Name  string
	Path  string
	State string
}

// Transfer describes an initiated repository transfer awaiting acceptance by
// the receiving owner.
type Transfer struct {
	RepositoryFull string
	NewOwner       string
	HTMLURL        string
}

// Invitation describes a pending repository invitation for the authenticated user.
type Invitation struct {
	ID             int64
	RepositoryFull string
	InviterLogin   string
	CreatedAt      time.Time
}

func convertRepository(repository *github.Repository) Repository {
	if repository == nil {
		return Repository{}
	}

	converted := Repository{
		Owner:         repository.GetOwner().GetLogin(),
		Name:          repository.GetName(),
		FullName:      repository.GetFullName(),
		Description:   repository.GetDescription(),
		Homepage:      repository.GetHomepage(),
		HTMLURL:       repository.GetHTMLURL(),
		CloneURL:      repository.GetCloneURL(),
		SSHURL:        repository.GetSSHURL(),
		DefaultBranch: repository.GetDefaultBranch(),
		Language:      repository.GetLanguage(),
		Stars:         repository.GetStargazersCount(),
		Forks:         repository.GetForksCount(),
		SizeKB:        repository.GetSize(),
		Topics:        append([]string{}, repository.Topics...),
		Private:       repository.GetPrivate(),
		Fork:          repository.GetFork(),
		Archived:      repository.GetArchived(),
		PushedAt:      repository.GetPushedAt().Time,
	}

	if repository.License != nil {
		converted.LicenseKey = repository.License.GetKey()
		converted.LicenseName = repository.License.GetName()
	}

	if len(converted.DefaultBranch) == 0 {
		converted.DefaultBranch = "main"
	}

	return converted
}

func convertUser(user *github.User) User {
	return User{
		Login: user.GetLogin(),
		Name:  user.GetName(),
		Type:  user.GetType(),
	}
}

func convertOrganization(organization *github.Organization) Organization {
	return Organization{
		Login:              organization.GetLogin(),
		Name:               organization.GetName(),
		Description:        organization.GetDescription(),
		HTMLURL:            organization.GetHTMLURL(),
		Blog:               organization.GetBlog(),
		Location:           organization.GetLocation(),
		AvatarURL:          organization.GetAvatarURL(),
		PublicRepositories: organization.GetPublicRepos(),
	}
}

func convertLicense(license *github.License) License {
	return License{
		Key:  license.GetKey(),
		Name: license.GetName(),
		Body: license.GetBody(),
	}
}

func convertInvitation(invitation *github.RepositoryInvitation) Invitation {
	converted := Invitation{
		ID:           invitation.GetID(),
		InviterLogin: invitation.GetInviter().GetLogin(),
		CreatedAt:    invitation.GetCreatedAt().Time,
	}
	if invitation.Repo != nil {
		converted.RepositoryFull = invitation.Repo.GetFullName()
	}
	return converted
}
