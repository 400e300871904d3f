package service

import "go.opentelemetry.io/otel/attribute"

func errorKindAttr(k Kind) attribute.KeyValue {
	return attribute.String("giftwallet.error_kind", k.String())
}

func purposeAttr(p string) attribute.KeyValue {
	return attribute.String("giftwallet.otp_purpose", p)
}
