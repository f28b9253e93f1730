package config

import (
	"time"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/engine"
)

func boolPtr(b bool) *bool { return &b }

// DefaultConfig is the Feira Central deployment.
func DefaultConfig() Config {
	return Config{
		Title:    "Dashboard Feira Central",
		Subtitle: "Pesquisa com Comerciantes de Campina Grande",
		Server:   ServerConfig{Addr: ":8080", RateLimit: 20},
		Source:   SourceConfig{Dir: "data", Timeout: 10 * time.Second},
		Log:      LogConfig{Level: "info"},
		Export:   ExportConfig{Filename: engine.DefaultCSVFilename},
		Income:   []string{"renda_stats", "renda_domiciliar_stats"},
		Pyramid:  PyramidConfig{Document: "piramide", Title: "Pirâmide Etária por Gênero"},
		Charts: []ChartConfig{
			{Key: "genero", Title: "Distribuição por Gênero", Kind: "pie", ShareThreshold: 0.08},
			{Key: "etnia", Title: "Distribuição por Etnia", Kind: "pie", ShareThreshold: 0.08},
			{Key: "faixa_etaria", Title: "Distribuição por Faixa Etária", Kind: "bar", Sort: boolPtr(false)},
			{Key: "escolaridade", Title: "Distribuição por Escolaridade", Kind: "numbered", Sort: boolPtr(false)},
			{Key: "estado_civil", Title: "Estado Civil"},
			{Key: "renda_mensal", Title: "Distribuição de Renda Mensal", Kind: "bar", Sort: boolPtr(false)},
			{Key: "mei", Title: "Possui MEI"},
			{Key: "beneficio_governo", Title: "Recebe Benefício do Governo"},
			{Key: "fontes_renda", Title: "Fontes de Renda", Kind: "list"},
			{Key: "tipo_mercadoria", Title: "Tipo de Mercadoria"},
			{Key: "estrutura_comercio", Title: "Estrutura do Comércio"},
			{Key: "ocupacao_estabelecimento", Title: "Forma de Ocupação do Estabelecimento", Kind: "list"},
			{Key: "possui_funcionarios", Title: "Possui Funcionários"},
			{Key: "equipamentos", Title: "Top 8 Equipamentos", Kind: "bar", TopN: 8},
			{Key: "infraestrutura", Title: "Infraestrutura dos Estabelecimentos", Kind: "bar"},
			{Key: "cidade", Title: "Distribuição por Cidade", Kind: "bar", Relabel: map[string]string{"CG": "Campina Grande"}},
			{Key: "moradia", Title: "Forma de Ocupação de Moradia"},
			{Key: "habitacao", Title: "Condição da Habitação"},
		},
		KPIs: []KPIConfig{
			{Label: "Total de Comerciantes", Kind: "total", Source: "genero"},
			{Label: "Renda Média Mensal", Kind: "mean", Source: "renda_stats"},
			{Label: "Possui MEI", Kind: "count", Source: "mei", Category: "Sim"},
			{Label: "Renda Domiciliar Média", Kind: "mean", Source: "renda_domiciliar_stats"},
		},
		Table: TableConfig{
			Document: "registros",
			Columns: []string{
				"Disponibilidade do Comerciante",
				"Número da Selagem",
				"Gênero",
				"Etnia / Cor",
				"Data de Nascimento",
				"Renda Média Mensal do Feirante",
				"Possui Cônjuge/Companheiro",
				"Bairro",
				"Cidade",
				"Forma de Ocupação de Moradia",
				"Condição da Habitação?",
				"Estrutura do Comércio (Estabelecimento)",
				"Tipo de Mercadoria (Estabelecimento)",
				"Tem taxa de funcionamento? (Estabelecimento)",
				"Energia Elétrica? (Estabelecimento)",
				"Abastecimento de Água? (Estabelecimento)",
				"Unidade Sanitária (Estabelecimento)",
				"Coleta de Lixo (Estabelecimento)",
			},
			Filters: []string{
				"Disponibilidade do Comerciante",
				"Gênero",
				"Cidade",
				"Renda Média Mensal do Feirante",
			},
		},
	}
}
