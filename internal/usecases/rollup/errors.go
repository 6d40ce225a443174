package rollup

import "errors"

// ErrDataAccess cobre falhas de leitura do ledger e de gravação dos
// resumos. Aborta a execução inteira: nunca há commit parcial.
var ErrDataAccess = errors.New("falha de acesso aos dados")
