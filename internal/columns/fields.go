package columns

// Field is a canonical semantic column.
type Field string

const (
	SKU         Field = "sku"
	Name        Field = "name"
	UnitsSold   Field = "unitsSold"
	Revenue     Field = "revenue"
	Stock       Field = "stock"
	InOrders    Field = "inOrders"
	Available   Field = "available"
	Channel     Field = "channel"
	Date        Field = "date"
	Campaign    Field = "campaign"
	Spend       Field = "spend"
	Clicks      Field = "clicks"
	Impressions Field = "impressions"
)

// Fields maps each canonical field to the normalized substrings that identify it,
// in priority order. German, Portuguese and English exports are covered; adding a
// synonym is a table edit.
var Fields = map[Field][]string{
	SKU: {"sku", "artikelnummer", "art_nr", "artnr", "article_number", "codigo", "referencia"},
	Name: {
		"artikelname", "produktname", "product_name", "nome_produto", "produto",
		"bezeichnung", "titel", "title", "name", "nome", "product",
	},
	UnitsSold: {
		"verkauft", "units_sold", "quantidade_vendida", "vendas", "units",
		"menge", "quantidade", "qty", "sold",
	},
	Revenue: {
		"umsatz", "revenue", "receita", "faturamento", "erlos", "valor_total",
		"gross_sales", "net_sales", "total_sales", "sales_total",
	},
	Stock:     {"lagerbestand", "bestand", "stock", "estoque", "inventory"},
	InOrders:  {"in_auftragen", "in_bestellung", "reserviert", "in_orders", "reserved", "pedidos", "reservado"},
	Available: {"verfugbar", "available", "disponivel", "disponible", "free_stock"},
	Channel:   {"shop", "kanal", "channel", "canal", "loja", "marketplace", "plattform", "platform"},
	Date:      {"datum", "date", "data", "bestelldatum", "order_date", "created"},

	Campaign:    {"kampagne", "campaign", "campanha"},
	Spend:       {"ausgaben", "kosten", "spend", "cost", "custo", "gasto", "investimento"},
	Clicks:      {"klicks", "clicks", "cliques"},
	Impressions: {"impressionen", "impressions", "impressoes"},
}
