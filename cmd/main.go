package main

import (
	"context"
	"net/http"
	"os"

	"github.com/FaturaSimples/api-faturamento/internal/auth"
	"github.com/FaturaSimples/api-faturamento/internal/cliente"
	"github.com/FaturaSimples/api-faturamento/internal/fatura"
	"github.com/FaturaSimples/api-faturamento/internal/ia"
	"github.com/FaturaSimples/api-faturamento/internal/logger"
	"github.com/FaturaSimples/api-faturamento/internal/recorrencia"
	"github.com/FaturaSimples/api-faturamento/internal/usuario"
	"github.com/FaturaSimples/api-faturamento/internal/utils/db"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	if err := logger.Setup(); err != nil {
		log.Fatal().Err(err).Msg("configuração de log inválida")
	}

	database, err := db.Conectar()
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao conectar no banco")
	}

	if err := usuario.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("erro no AutoMigrate de usuários")
	}
	if err := cliente.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("erro no AutoMigrate de clientes")
	}
	if err := fatura.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("erro no AutoMigrate de faturas")
	}
	if err := recorrencia.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("erro no AutoMigrate de recorrências")
	}

	// Repositórios e agendador
	usuarioRepo := usuario.NewRepository(database)
	clienteRepo := cliente.NewRepository(database)
	faturaRepo := fatura.NewRepository(database)
	recorrenciaRepo := recorrencia.NewRepository(database)
	agendador := recorrencia.NovoAgendador(recorrenciaRepo, faturaRepo, logger.ComComponente("agendador"))

	// Serviços de IA: opcionais, ligados conforme credenciais disponíveis
	ctx := context.Background()
	var servicoOCR *ia.ServicoOCR
	if os.Getenv("GOOGLE_CREDENTIALS") != "" || os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		servicoOCR, err = ia.NovoServicoOCR(ctx, logger.ComComponente("ocr"))
		if err != nil {
			log.Warn().Err(err).Msg("OCR desabilitado")
		}
	}
	var servicoExtracao *ia.ServicoExtracao
	var servicoAvatar *ia.ServicoAvatar
	if os.Getenv("OPENAI_API_KEY") != "" {
		if servicoExtracao, err = ia.NovoServicoExtracao(logger.ComComponente("extracao")); err != nil {
			log.Warn().Err(err).Msg("extração de itens desabilitada")
		}
		if servicoAvatar, err = ia.NovoServicoAvatar(logger.ComComponente("avatar")); err != nil {
			log.Warn().Err(err).Msg("geração de avatar desabilitada")
		}
	}

	// Handlers
	usuarioHandler := usuario.NewHandler(usuarioRepo)
	clienteHandler := cliente.NewHandler(clienteRepo)
	faturaHandler := fatura.NewHandler(faturaRepo)
	recorrenciaHandler := recorrencia.NewHandler(recorrenciaRepo, agendador)
	iaHandler := ia.NewHandler(servicoOCR, servicoExtracao, servicoAvatar)

	// Router
	r := mux.NewRouter()

	// Rotas públicas
	r.HandleFunc("/registrar", usuarioHandler.Registrar).Methods("POST")
	r.HandleFunc("/login", usuarioHandler.Login).Methods("POST")

	// Rotas autenticadas
	api := r.NewRoute().Subrouter()
	api.Use(auth.MiddlewareAutenticacao)

	api.HandleFunc("/perfil", usuarioHandler.Perfil).Methods("GET")

	// Rotas de clientes
	api.HandleFunc("/clientes", clienteHandler.Criar).Methods("POST")
	api.HandleFunc("/clientes", clienteHandler.Listar).Methods("GET")
	api.HandleFunc("/clientes/{id}", clienteHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/clientes/{id}", clienteHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/clientes/{id}", clienteHandler.Deletar).Methods("DELETE")

	// Rotas de faturas
	api.HandleFunc("/faturas", faturaHandler.Listar).Methods("GET")
	api.HandleFunc("/faturas/{id}", faturaHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/faturas/{id}/status", faturaHandler.AtualizarStatus).Methods("PUT")
	api.HandleFunc("/faturas/{id}", faturaHandler.Deletar).Methods("DELETE")

	// Rotas de recorrências
	api.HandleFunc("/recorrencias", recorrenciaHandler.Criar).Methods("POST")
	api.HandleFunc("/recorrencias", recorrenciaHandler.Listar).Methods("GET")
	api.HandleFunc("/recorrencias/gerar", recorrenciaHandler.Gerar).Methods("POST")
	api.HandleFunc("/recorrencias/{id}", recorrenciaHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/recorrencias/{id}", recorrenciaHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/recorrencias/{id}", recorrenciaHandler.Deletar).Methods("DELETE")
	api.HandleFunc("/recorrencias/{id}/pausar", recorrenciaHandler.Pausar).Methods("PUT")
	api.HandleFunc("/recorrencias/{id}/retomar", recorrenciaHandler.Retomar).Methods("PUT")
	api.HandleFunc("/recorrencias/{id}/concluir", recorrenciaHandler.Concluir).Methods("PUT")

	// Rotas de IA
	api.HandleFunc("/ia/ocr", iaHandler.ExtrairTexto).Methods("POST")
	api.HandleFunc("/ia/extrair-itens", iaHandler.ExtrairItens).Methods("POST")
	api.HandleFunc("/ia/avatar", iaHandler.GerarAvatar).Methods("POST")

	porta := os.Getenv("PORT")
	if porta == "" {
		porta = "8080"
	}
	handler := cors.AllowAll().Handler(r)
	log.Info().Str("porta", porta).Msg("servidor rodando")
	log.Fatal().Err(http.ListenAndServe(":"+porta, handler)).Msg("servidor encerrado")
}
