package receipt

import (
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

// paymentLabels maps payment methods to their display names
var paymentLabels = map[string]string{
	"cash":        "Dinheiro",
	"credit_card": "Cartão de crédito",
	"debit_card":  "Cartão de débito",
	"pix":         "Pix",
}

// statusLabels maps order statuses to their display names
var statusLabels = map[string]string{
	"PENDING":          "Pendente",
	"CONFIRMED":        "Confirmado",
	"PREPARING":        "Em preparo",
	"OUT_FOR_DELIVERY": "Saiu para entrega",
	"READY_FOR_PICKUP": "Pronto para retirada",
	"DELIVERED":        "Entregue",
	"CANCELLED":        "Cancelado",
}

func brl(d decimal.Decimal) string {
	return "R$ " + strings.ReplaceAll(d.StringFixed(2), ".", ",")
}

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"brl": brl,
	"brlp": func(d *decimal.Decimal) string {
		if d == nil {
			return ""
		}
		return brl(*d)
	},
	"paymentLabel": func(method string) string {
		if label, ok := paymentLabels[method]; ok {
			return label
		}
		return method
	},
	"statusLabel": func(status string) string {
		if label, ok := statusLabels[status]; ok {
			return label
		}
		return status
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
  body { font-family: "Courier New", monospace; font-size: 12px; width: 72mm; margin: 0; padding: 2mm; }
  .center { text-align: center; }
  .bold { font-weight: bold; }
  .big { font-size: 16px; }
  hr { border: none; border-top: 1px dashed #000; margin: 2mm 0; }
  table { width: 100%; border-collapse: collapse; }
  td { vertical-align: top; padding: 0.5mm 0; }
  td.amount { text-align: right; white-space: nowrap; }
  .addon { padding-left: 4mm; font-size: 11px; }
  .note { padding-left: 4mm; font-style: italic; font-size: 11px; }
  .cancelled { font-weight: bold; text-decoration: underline; }
</style>
</head>
<body>
<div class="center bold big">{{.StoreName}}</div>
{{- if ne .Kind "kitchen"}}
{{- if .StoreAddress}}<div class="center">{{.StoreAddress}}</div>{{end}}
{{- if .StorePhone}}<div class="center">{{.StorePhone}}</div>{{end}}
{{- end}}
<hr>
<div class="bold big">Pedido {{.Number}}</div>
<div>{{.PlacedAt.Format "02/01/2006 15:04"}} — {{statusLabel .Status}}</div>
{{- if eq .Status "CANCELLED"}}
<div class="cancelled">CANCELADO{{if .CancelReason}}: {{.CancelReason}}{{end}}</div>
{{- end}}
<hr>
<div class="bold">{{if eq .Fulfillment "delivery"}}ENTREGA{{else}}RETIRADA{{end}}</div>
<div>{{.CustomerName}} — {{.CustomerPhone}}</div>
{{- if .DeliveryAddress}}<div>{{.DeliveryAddress}}</div>{{end}}
<hr>
<table>
{{- range .Items}}
<tr>
  <td>{{.Quantity}}x {{.Name}}</td>
  {{- if ne $.Kind "kitchen"}}<td class="amount">{{brl .LineTotal}}</td>{{end}}
</tr>
{{- range .Additionals}}
<tr><td class="addon" {{if ne $.Kind "kitchen"}}colspan="2"{{end}}>+ {{.}}</td></tr>
{{- end}}
{{- if .Note}}
<tr><td class="note" {{if ne $.Kind "kitchen"}}colspan="2"{{end}}>Obs: {{.Note}}</td></tr>
{{- end}}
{{- end}}
</table>
{{- if .Note}}
<hr>
<div class="note">Obs. do pedido: {{.Note}}</div>
{{- end}}
{{- if ne .Kind "kitchen"}}
<hr>
<table>
<tr><td>Subtotal</td><td class="amount">{{brl .Subtotal}}</td></tr>
{{- if .DeliveryFee.IsPositive}}
<tr><td>Entrega</td><td class="amount">{{brl .DeliveryFee}}</td></tr>
{{- end}}
{{- if .Discount.IsPositive}}
<tr><td>Desconto{{if .CouponCode}} ({{.CouponCode}}){{end}}</td><td class="amount">-{{brl .Discount}}</td></tr>
{{- end}}
<tr class="bold"><td class="bold">TOTAL</td><td class="amount bold">{{brl .Total}}</td></tr>
</table>
<hr>
<div>Pagamento: {{paymentLabel .PaymentMethod}}</div>
{{- if .ChangeFor}}
<div>Troco para {{brlp .ChangeFor}}, levar {{brl .ChangeDue}}</div>
{{- end}}
{{- end}}
<hr>
<div class="center">{{.PlacedAt.Format "02/01/2006"}} • obrigado pela preferência</div>
</body>
</html>
`))
