package route

import "pobbin/internal/model"

type PageID string

const (
	PageIndex     PageID = "index"
	PagePaste     PageID = "paste"
	PageUser      PageID = "user"
	PageUserPaste PageID = "user_paste"
	PageEditPaste PageID = "edit_paste"
)

// PageArgs is closed over the argument types of every application page. The
// same value is handed to whichever data-loading constructor runs.
type PageArgs interface {
	PageID() PageID
	Path() string
	isPageArgs()
}

type IndexArgs struct{}

type PasteArgs struct{ ID model.PasteID }

type UserArgs struct{ Name string }

type UserPasteArgs struct{ ID model.PasteID }

type EditPasteArgs struct{ ID model.PasteID }

func (IndexArgs) PageID() PageID     { return PageIndex }
func (PasteArgs) PageID() PageID     { return PagePaste }
func (UserArgs) PageID() PageID      { return PageUser }
func (UserPasteArgs) PageID() PageID { return PageUserPaste }
func (EditPasteArgs) PageID() PageID { return PageEditPaste }

func (IndexArgs) Path() string       { return "/" }
func (a PasteArgs) Path() string     { return a.ID.URL() }
func (a UserArgs) Path() string      { return "/u/" + a.Name }
func (a UserPasteArgs) Path() string { return a.ID.URL() }
func (a EditPasteArgs) Path() string { return a.ID.EditURL() }

func (IndexArgs) isPageArgs()     {}
func (PasteArgs) isPageArgs()     {}
func (UserArgs) isPageArgs()      {}
func (UserPasteArgs) isPageArgs() {}
func (EditPasteArgs) isPageArgs() {}

var appPages = newTable("APP",
	static[PageArgs]("/", IndexArgs{}),
	on("/u/<name>/<id>/edit", func(p Params) (PageArgs, bool) {
		id, ok := userScopedID(p)
		return EditPasteArgs{ID: id}, ok
	}),
	on("/u/<name>/<id>", func(p Params) (PageArgs, bool) {
		id, ok := userScopedID(p)
		return UserPasteArgs{ID: id}, ok
	}),
	on("/u/<name>", func(p Params) (PageArgs, bool) {
		name, ok := userName(p)
		return UserArgs{Name: name}, ok
	}),
	on("/<id>", func(p Params) (PageArgs, bool) {
		id, ok := anonymousID(p)
		return PasteArgs{ID: id}, ok
	}),
)

// MatchPage resolves requestPath against the application table only.
func MatchPage(requestPath string) (PageArgs, bool) {
	return appPages.match(requestPath)
}
