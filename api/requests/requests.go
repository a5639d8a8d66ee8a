package requests

type SearchStudentsRequest struct {
	Q string `query:"q"`
}

type GenerateDeclarationRequest struct {
	Force bool `query:"force"`
}

type OAuthCallbackRequest struct {
	Code  string `query:"code"`
	State string `query:"state"`
	Error string `query:"error"`
}
