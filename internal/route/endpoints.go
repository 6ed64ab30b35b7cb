package route

import (
	"net/http"

	"pobbin/internal/model"
)

// Endpoint is closed over Get, Post and Delete.
type Endpoint interface {
	Method() string
	Name() string
	isEndpoint()
}

type Get struct{ Endpoint GetEndpoint }

type Post struct{ Endpoint PostEndpoint }

type Delete struct{ Endpoint DeleteEndpoint }

func (Get) Method() string    { return http.MethodGet }
func (Post) Method() string   { return http.MethodPost }
func (Delete) Method() string { return http.MethodDelete }

func (e Get) Name() string    { return e.Endpoint.endpointName() }
func (e Post) Name() string   { return e.Endpoint.endpointName() }
func (e Delete) Name() string { return e.Endpoint.endpointName() }

func (Get) isEndpoint()    {}
func (Post) isEndpoint()   {}
func (Delete) isEndpoint() {}

type GetEndpoint interface {
	endpointName() string
	isGetEndpoint()
}

type Oembed struct{}

type User struct{ Name string }

type PasteRaw struct{ ID model.PasteID }

type UserPasteRaw struct{ ID model.PasteID }

type PasteJSON struct{ ID model.PasteID }

type UserPasteJSON struct{ ID model.PasteID }

// PobPaste serves Path of Building imports. The id may be anonymous or
// user scoped ("user:id"), the latter being what pob:// links carry.
type PobPaste struct{ ID model.PasteID }

type PobUserPaste struct{ ID model.PasteID }

type Login struct{}

type OAuthEntry struct{}

func (Oembed) endpointName() string        { return "oembed" }
func (User) endpointName() string          { return "user" }
func (PasteRaw) endpointName() string      { return "paste_raw" }
func (UserPasteRaw) endpointName() string  { return "user_paste_raw" }
func (PasteJSON) endpointName() string     { return "paste_json" }
func (UserPasteJSON) endpointName() string { return "user_paste_json" }
func (PobPaste) endpointName() string      { return "pob_paste" }
func (PobUserPaste) endpointName() string  { return "pob_user_paste" }
func (Login) endpointName() string         { return "login" }
func (OAuthEntry) endpointName() string    { return "oauth_entry" }

func (Oembed) isGetEndpoint()        {}
func (User) isGetEndpoint()          {}
func (PasteRaw) isGetEndpoint()      {}
func (UserPasteRaw) isGetEndpoint()  {}
func (PasteJSON) isGetEndpoint()     {}
func (UserPasteJSON) isGetEndpoint() {}
func (PobPaste) isGetEndpoint()      {}
func (PobUserPaste) isGetEndpoint()  {}
func (Login) isGetEndpoint()         {}
func (OAuthEntry) isGetEndpoint()    {}

type PostEndpoint interface {
	endpointName() string
	isPostEndpoint()
}

type CreatePaste struct{}

// PobCreate accepts a raw build export from Path of Building.
type PobCreate struct{}

func (CreatePaste) endpointName() string { return "create_paste" }
func (PobCreate) endpointName() string   { return "pob_create" }

func (CreatePaste) isPostEndpoint() {}
func (PobCreate) isPostEndpoint()   {}

type DeleteEndpoint interface {
	endpointName() string
	isDeleteEndpoint()
}

type DeletePaste struct{ ID model.PasteID }

func (DeletePaste) endpointName() string { return "delete_paste" }

func (DeletePaste) isDeleteEndpoint() {}

var getEndpoints = newTable("GET",
	static[GetEndpoint]("/oembed.json", Oembed{}),
	on("/api/internal/user/<name>", func(p Params) (GetEndpoint, bool) {
		name, ok := userName(p)
		return User{Name: name}, ok
	}),
	on("/<id>/raw", func(p Params) (GetEndpoint, bool) {
		id, ok := anonymousID(p)
		return PasteRaw{ID: id}, ok
	}),
	on("/u/<name>/<id>/raw", func(p Params) (GetEndpoint, bool) {
		id, ok := userScopedID(p)
		return UserPasteRaw{ID: id}, ok
	}),
	on("/<id>/json", func(p Params) (GetEndpoint, bool) {
		id, ok := anonymousID(p)
		return PasteJSON{ID: id}, ok
	}),
	on("/u/<name>/<id>/json", func(p Params) (GetEndpoint, bool) {
		id, ok := userScopedID(p)
		return UserPasteJSON{ID: id}, ok
	}),
	on("/pob/<id>", func(p Params) (GetEndpoint, bool) {
		id, ok := anyID(p)
		return PobPaste{ID: id}, ok
	}),
	on("/pob/u/<name>/<id>", func(p Params) (GetEndpoint, bool) {
		id, ok := userScopedID(p)
		return PobUserPaste{ID: id}, ok
	}),
	static[GetEndpoint]("/login", Login{}),
	static[GetEndpoint]("/oauth2/authorization/poe", OAuthEntry{}),
)

var postEndpoints = newTable("POST",
	static[PostEndpoint]("/api/internal/paste/", CreatePaste{}),
	static[PostEndpoint]("/pob/", PobCreate{}),
)

var deleteEndpoints = newTable("DELETE",
	on("/api/internal/paste/<id>", func(p Params) (DeleteEndpoint, bool) {
		id, ok := anyID(p)
		return DeletePaste{ID: id}, ok
	}),
)

func userName(p Params) (string, bool) {
	name, _ := p.Param("name")
	return name, model.IsValidUserName(name)
}

func anonymousID(p Params) (model.PasteID, bool) {
	raw, _ := p.Param("id")
	id, err := model.NewPasteID(raw)
	return id, err == nil
}

func userScopedID(p Params) (model.PasteID, bool) {
	name, _ := p.Param("name")
	raw, _ := p.Param("id")
	id, err := model.NewUserPasteID(name, raw)
	return id, err == nil
}

func anyID(p Params) (model.PasteID, bool) {
	raw, _ := p.Param("id")
	id, err := model.ParsePasteID(raw)
	return id, err == nil
}
