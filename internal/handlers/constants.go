package handlers

const (
	CSRFFormField = "csrf_token"
	CSRFHeader    = "X-CSRF-Token"

	ErrInvalidFormData     = "Dados inválidos"
	ErrForbidden           = "Acesso negado"
	ErrTooManyRequests     = "Muitas tentativas. Aguarde um pouco."
	ErrInternalServerError = "Algo deu errado. Tente de novo."
	ErrActionNotAllowed    = "Ação indisponível agora"
	ErrNotFound            = "Não encontrado"

	MsgInvalidLogin = "Usuário ou senha incorretos"
	MsgModeNotFound = "Modo não encontrado"
	MsgPageNotFound = "Página não encontrada"
)
