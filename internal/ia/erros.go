package ia

import "errors"

var (
	// ErrChaveAusente indica que a chave de API necessária não está configurada.
	ErrChaveAusente = errors.New("chave de API não configurada")

	// ErrImagemInvalida indica que os bytes enviados não são uma imagem processável.
	ErrImagemInvalida = errors.New("imagem inválida ou corrompida")

	// ErrOCRFalhou indica falha na chamada à API de OCR.
	ErrOCRFalhou = errors.New("falha no OCR")

	// ErrSemTexto indica que o OCR não encontrou texto no documento.
	ErrSemTexto = errors.New("nenhum texto encontrado no documento")

	// ErrRespostaInvalida indica que o modelo devolveu algo que não pôde ser interpretado.
	ErrRespostaInvalida = errors.New("resposta do modelo não pôde ser interpretada")
)
