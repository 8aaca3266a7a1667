// Package consulta é um construtor de consultas tipado usado pelos
// repositórios: filtros de igualdade e faixa, ordenação e limite, aplicados
// sobre um *gorm.DB. Os nomes de campo passam por uma lista de caracteres
// permitidos antes de entrar no SQL.
package consulta

import (
	"fmt"

	"gorm.io/gorm"
)

type operador string

const (
	opIgual      operador = "="
	opMaiorIgual operador = ">="
	opMenorQue   operador = "<"
)

type filtro struct {
	campo string
	op    operador
	valor interface{}
}

type ordenacao struct {
	campo      string
	ascendente bool
}

// Consulta acumula filtros até ser aplicada a um *gorm.DB.
type Consulta struct {
	filtros    []filtro
	ordenacoes []ordenacao
	limite     int
}

func Nova() *Consulta {
	return &Consulta{}
}

// Igual adiciona um filtro de igualdade (campo = valor).
func (c *Consulta) Igual(campo string, valor interface{}) *Consulta {
	c.filtros = append(c.filtros, filtro{campo: campo, op: opIgual, valor: valor})
	return c
}

// MaiorIgual adiciona um filtro de faixa (campo >= valor).
func (c *Consulta) MaiorIgual(campo string, valor interface{}) *Consulta {
	c.filtros = append(c.filtros, filtro{campo: campo, op: opMaiorIgual, valor: valor})
	return c
}

// MenorQue adiciona um filtro de faixa (campo < valor).
func (c *Consulta) MenorQue(campo string, valor interface{}) *Consulta {
	c.filtros = append(c.filtros, filtro{campo: campo, op: opMenorQue, valor: valor})
	return c
}

// OrdenarPor adiciona ordenação pelo campo informado.
func (c *Consulta) OrdenarPor(campo string, ascendente bool) *Consulta {
	c.ordenacoes = append(c.ordenacoes, ordenacao{campo: campo, ascendente: ascendente})
	return c
}

// Limitar restringe o número de linhas retornadas.
func (c *Consulta) Limitar(n int) *Consulta {
	c.limite = n
	return c
}

// Aplicar traduz a consulta acumulada para o *gorm.DB informado.
// Campos com caracteres fora de [a-z0-9_] são ignorados.
func (c *Consulta) Aplicar(db *gorm.DB) *gorm.DB {
	for _, f := range c.filtros {
		if !campoValido(f.campo) {
			continue
		}
		db = db.Where(fmt.Sprintf("%s %s ?", f.campo, f.op), f.valor)
	}
	for _, o := range c.ordenacoes {
		if !campoValido(o.campo) {
			continue
		}
		direcao := "DESC"
		if o.ascendente {
			direcao = "ASC"
		}
		db = db.Order(fmt.Sprintf("%s %s", o.campo, direcao))
	}
	if c.limite > 0 {
		db = db.Limit(c.limite)
	}
	return db
}

func campoValido(campo string) bool {
	if campo == "" {
		return false
	}
	for _, r := range campo {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}
