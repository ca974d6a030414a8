package ir

import "fmt"

// Library is an installed, versioned content library.
type Library struct {
	ID          int64   `json:"id"`
	MachineName string  `json:"machine_name"`
	Title       string  `json:"title"`
	Version     Version `json:"version"`
	Runnable    bool    `json:"runnable"`

	// Opaque payload. Not interpreted by the removal workflow.
	PreloadedJS  string `json:"preloaded_js,omitempty"`
	PreloadedCSS string `json:"preloaded_css,omitempty"`
	Semantics    string `json:"semantics,omitempty"`
	TutorialURL  string `json:"tutorial_url,omitempty"`
}

// Label renders the library as "Title major.minor.patch".
func (l Library) Label() string {
	return fmt.Sprintf("%s %s", l.Title, l.Version)
}

// DependencyType is the kind of a library-to-library dependency.
type DependencyType string

const (
	DependencyPreloaded DependencyType = "preloaded"
	DependencyDynamic   DependencyType = "dynamic"
	DependencyEditor    DependencyType = "editor"
)

// ValidDependencyTypes defines allowed dependency types.
var ValidDependencyTypes = map[DependencyType]bool{
	DependencyPreloaded: true,
	DependencyDynamic:   true,
	DependencyEditor:    true,
}

// DependencyEdge says that LibraryID requires RequiredLibraryID.
type DependencyEdge struct {
	LibraryID         int64          `json:"library_id"`
	RequiredLibraryID int64          `json:"required_library_id"`
	Type              DependencyType `json:"dependency_type"`
}

// Activity is a content instance whose main library is MainLibraryID.
type Activity struct {
	ID             int64  `json:"id"`
	CourseID       int64  `json:"course_id"`
	CourseModuleID int64  `json:"course_module_id"`
	Name           string `json:"name"`
	MainLibraryID  int64  `json:"main_library_id"`
}

// LibraryUsage summarises who uses a library.
// Content is the number of activities using it as main library; Libraries
// holds the ids of libraries declaring it as a dependency, ascending.
type LibraryUsage struct {
	Content   int     `json:"content"`
	Libraries []int64 `json:"libraries"`
}

// LibraryFilter selects libraries either by ID or by title and version.
// A non-zero ID takes precedence over the title/version pair.
type LibraryFilter struct {
	ID      int64
	Title   string
	Version Version
}
