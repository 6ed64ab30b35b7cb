package site

import (
	"fmt"

	"pobbin/framework"
	"pobbin/internal/pages"
	"pobbin/internal/route"
	"pobbin/internal/web/appcore"
	"pobbin/internal/web/view"
)

// Modules wires every application page to its renderer. The same value is
// used by the server and by the client.
type Modules struct {
	Index     framework.PageModule[*appcore.Context, route.IndexArgs, pages.IndexData]
	Paste     framework.PageModule[*appcore.Context, route.PasteArgs, pages.PasteData]
	UserPaste framework.PageModule[*appcore.Context, route.UserPasteArgs, pages.PasteData]
	Edit      framework.PageModule[*appcore.Context, route.EditPasteArgs, pages.EditData]
	User      framework.PageModule[*appcore.Context, route.UserArgs, pages.UserData]
}

func NewModules(client pages.API, rootURL string) Modules {
	return Modules{
		Index: framework.PageModule[*appcore.Context, route.IndexArgs, pages.IndexData]{
			Name:   string(route.PageIndex),
			Page:   pages.Index{},
			Render: view.IndexPage,
		},
		Paste: framework.PageModule[*appcore.Context, route.PasteArgs, pages.PasteData]{
			Name:   string(route.PagePaste),
			Page:   pages.Paste{API: client},
			Render: view.PastePage(rootURL),
		},
		UserPaste: framework.PageModule[*appcore.Context, route.UserPasteArgs, pages.PasteData]{
			Name:   string(route.PageUserPaste),
			Page:   pages.UserPaste{API: client},
			Render: view.PastePage(rootURL),
		},
		Edit: framework.PageModule[*appcore.Context, route.EditPasteArgs, pages.EditData]{
			Name:   string(route.PageEditPaste),
			Page:   pages.Edit{API: client},
			Render: view.EditPage,
		},
		User: framework.PageModule[*appcore.Context, route.UserArgs, pages.UserData]{
			Name:   string(route.PageUser),
			Page:   pages.User{API: client},
			Render: view.UserPage,
		},
	}
}

// Bind selects the page module for args.
func (m Modules) Bind(args route.PageArgs) framework.BoundPage[*appcore.Context] {
	switch typed := args.(type) {
	case route.IndexArgs:
		return framework.Bind(m.Index, typed)
	case route.PasteArgs:
		return framework.Bind(m.Paste, typed)
	case route.UserPasteArgs:
		return framework.Bind(m.UserPaste, typed)
	case route.EditPasteArgs:
		return framework.Bind(m.Edit, typed)
	case route.UserArgs:
		return framework.Bind(m.User, typed)
	default:
		panic(fmt.Sprintf("site: unhandled page args %T", args))
	}
}
