package receipt

// receiptTemplate lays out the receipt; every helper pads to the renderer's columns.
const receiptTemplate = `{{center (upper .Store.Name)}}
{{with .Store.Address}}{{center .}}
{{end}}{{with .Store.CNPJ}}{{center (printf "CNPJ: %s" .)}}
{{end}}{{with .Store.Phone}}{{center (printf "TEL: %s" .)}}
{{end}}{{rule "="}}
{{row (printf "PEDIDO N: %s" .Number) .Date}}
CLIENTE: {{.Customer}}
{{with .Phone}}TEL: {{.}}
{{end}}{{rule "-"}}
{{if .Delivery}}{{center "ENTREGA EM DOMICILIO"}}{{else}}{{center "RETIRADA NO LOCAL"}}{{end}}
{{if .Address}}{{rule "-"}}
ENDERECO:
{{range wrap .Address}}{{.}}
{{end}}{{with .Courier}}MOTOBOY: {{.}}
{{end}}{{end}}{{rule "="}}
{{row "QTD DESCRICAO" "VALOR"}}
{{rule "-"}}
{{range .Items}}{{itemRows .}}{{end}}{{rule "="}}
{{row "TOTAL BRUTO:" (brl .Subtotal)}}
{{if .DeliveryFee.IsPositive}}{{row "TAXA ENTREGA:" (brl .DeliveryFee)}}
{{end}}{{row "VALOR A PAGAR:" (brl .Total)}}
{{row "VALOR PAGO:" (brl .Paid)}}
{{row "TROCO:" (brl .Change)}}
{{rule "-"}}
PAGAMENTO: {{.Payments}}
{{rule "="}}
{{center .Footer}}
{{with .FiscalID}}{{center "CF-e SAT"}}
{{range wrap .}}{{.}}
{{end}}{{end}}{{with .Notice}}{{center .}}
{{end}}`
