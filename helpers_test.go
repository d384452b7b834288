package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testContext returns a context carrying a logger that discards output.
func testContext(t *testing.T) context.Context {
	t.Helper()
	return withLogger(context.Background(), newLogger("error", "text", io.Discard))
}

// parseXEF parses an inline project export.
func parseXEF(t *testing.T, body string) *Document {
	t.Helper()
	doc, err := ParseDocument(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

// xef wraps module and variable fragments in a minimal export document.
func xef(header string, modules, variables []string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n<FEFExchangeFile>\n")
	if header != "" {
		fmt.Fprintf(&sb, `<contentHeader name="%s"></contentHeader>`+"\n", header)
	}
	sb.WriteString(`<configuration><PLC><partItem partNumber="140CPU65150" family="Quantum"></partItem>` + "\n")
	for _, m := range modules {
		sb.WriteString(m)
	}
	sb.WriteString("</PLC></configuration>\n<dataBlock>\n")
	for _, v := range variables {
		sb.WriteString(v)
	}
	sb.WriteString("</dataBlock>\n</FEFExchangeFile>\n")
	return sb.String()
}

func moduleXML(model, address string) string {
	return fmt.Sprintf(`<moduleQuantum><partItem partNumber="%s"></partItem><equipInfo topoAddress="%s"></equipInfo></moduleQuantum>`+"\n",
		model, address)
}

type alias struct {
	member string
	tag    string
}

// ioVariableXML builds a structured I/O variable with one VALUE/Alias per member.
func ioVariableXML(name string, aliases ...alias) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<variables name="%s" typeName="T_U_DIS_IN_GEN"><instanceElementDesc name="DIS_CH_IN">`, name)
	for _, a := range aliases {
		fmt.Fprintf(&sb, `<instanceElementDesc name="%s"><instanceElementDesc name="VALUE"><attribute name="Alias" value="%s"></attribute></instanceElementDesc></instanceElementDesc>`,
			a.member, a.tag)
	}
	sb.WriteString("</instanceElementDesc></variables>\n")
	return sb.String()
}

func variableXML(name, typeName, comment string) string {
	if comment == "" {
		return fmt.Sprintf(`<variables name="%s" typeName="%s"></variables>`+"\n", name, typeName)
	}
	return fmt.Sprintf(`<variables name="%s" typeName="%s"><comment>%s</comment></variables>`+"\n", name, typeName, comment)
}
