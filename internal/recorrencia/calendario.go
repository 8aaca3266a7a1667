package recorrencia

import "time"

// Aritmética de calendário com granularidade de dia inteiro. Soma mensal e
// anual preserva o dia do mês; quando o mês de destino não tem o dia, a data
// é ajustada para o último dia daquele mês (31/jan + 1 mês = 29/fev em ano
// bissexto, 28/fev nos demais).

var somaPorFrequencia = map[Frequencia]func(time.Time, int) time.Time{
	FrequenciaDiaria:  func(d time.Time, n int) time.Time { return d.AddDate(0, 0, n) },
	FrequenciaSemanal: func(d time.Time, n int) time.Time { return d.AddDate(0, 0, 7*n) },
	FrequenciaMensal:  somarMeses,
	FrequenciaAnual:   func(d time.Time, n int) time.Time { return somarMeses(d, 12*n) },
}

// AdicionarFrequencia soma intervalo unidades da frequência à data.
// Frequência desconhecida retorna a data inalterada; Validar barra esse caso
// antes de a aritmética ser usada.
func AdicionarFrequencia(data time.Time, f Frequencia, intervalo int) time.Time {
	soma, ok := somaPorFrequencia[f]
	if !ok {
		return data
	}
	return soma(data, intervalo)
}

// somarMeses soma meses preservando o dia, com ajuste para o fim do mês.
// AddDate não serve aqui: 31/jan + 1 mês viraria 2 ou 3/mar.
func somarMeses(data time.Time, meses int) time.Time {
	ano, mes, dia := data.Date()
	primeiro := time.Date(ano, mes+time.Month(meses), 1, 0, 0, 0, 0, data.Location())
	ultimo := primeiro.AddDate(0, 1, -1).Day()
	if dia > ultimo {
		dia = ultimo
	}
	return time.Date(primeiro.Year(), primeiro.Month(), dia, 0, 0, 0, 0, data.Location())
}

// TruncarDia normaliza a data para a meia-noite UTC do mesmo dia.
func TruncarDia(t time.Time) time.Time {
	ano, mes, dia := t.UTC().Date()
	return time.Date(ano, mes, dia, 0, 0, 0, 0, time.UTC)
}
