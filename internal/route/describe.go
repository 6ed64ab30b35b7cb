package route

import "fmt"

// Describe renders a Route in the notation used by logs and the CLI, e.g.
// "Api(Get(User(\"foo\")))".
func Describe(r Route) string {
	switch typed := r.(type) {
	case Application:
		return fmt.Sprintf("Application(%s)", describeArgs(typed.Args))
	case API:
		return fmt.Sprintf("Api(%s)", describeEndpoint(typed.Endpoint))
	case Asset:
		return "Asset"
	case NotFound:
		return "NotFound"
	default:
		panic(fmt.Sprintf("route: unhandled route %T", r))
	}
}

func describeArgs(args PageArgs) string {
	switch typed := args.(type) {
	case IndexArgs:
		return "Index"
	case PasteArgs:
		return fmt.Sprintf("Paste(%q)", typed.ID.String())
	case UserArgs:
		return fmt.Sprintf("User(%q)", typed.Name)
	case UserPasteArgs:
		return fmt.Sprintf("UserPaste(%q)", typed.ID.String())
	case EditPasteArgs:
		return fmt.Sprintf("EditPaste(%q)", typed.ID.String())
	default:
		panic(fmt.Sprintf("route: unhandled page args %T", args))
	}
}

func describeEndpoint(endpoint Endpoint) string {
	switch typed := endpoint.(type) {
	case Get:
		return fmt.Sprintf("Get(%s)", describeGet(typed.Endpoint))
	case Post:
		return fmt.Sprintf("Post(%s)", describePost(typed.Endpoint))
	case Delete:
		return fmt.Sprintf("Delete(%s)", describeDelete(typed.Endpoint))
	default:
		panic(fmt.Sprintf("route: unhandled endpoint %T", endpoint))
	}
}

func describeGet(endpoint GetEndpoint) string {
	switch typed := endpoint.(type) {
	case Oembed:
		return "Oembed"
	case User:
		return fmt.Sprintf("User(%q)", typed.Name)
	case PasteRaw:
		return fmt.Sprintf("PasteRaw(%q)", typed.ID.String())
	case UserPasteRaw:
		return fmt.Sprintf("UserPasteRaw(%q)", typed.ID.String())
	case PasteJSON:
		return fmt.Sprintf("PasteJson(%q)", typed.ID.String())
	case UserPasteJSON:
		return fmt.Sprintf("UserPasteJson(%q)", typed.ID.String())
	case PobPaste:
		return fmt.Sprintf("PobPaste(%q)", typed.ID.String())
	case PobUserPaste:
		return fmt.Sprintf("PobUserPaste(%q)", typed.ID.String())
	case Login:
		return "Login"
	case OAuthEntry:
		return "OAuthEntry"
	default:
		panic(fmt.Sprintf("route: unhandled get endpoint %T", endpoint))
	}
}

func describePost(endpoint PostEndpoint) string {
	switch endpoint.(type) {
	case CreatePaste:
		return "CreatePaste"
	case PobCreate:
		return "PobCreate"
	default:
		panic(fmt.Sprintf("route: unhandled post endpoint %T", endpoint))
	}
}

func describeDelete(endpoint DeleteEndpoint) string {
	switch typed := endpoint.(type) {
	case DeletePaste:
		return fmt.Sprintf("DeletePaste(%q)", typed.ID.String())
	default:
		panic(fmt.Sprintf("route: unhandled delete endpoint %T", endpoint))
	}
}
