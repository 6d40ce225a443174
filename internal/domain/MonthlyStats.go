package domain

// WeeklyStats acumula os totais de uma semana do mês (1 a 5)
type WeeklyStats struct {
	Revenue      float64
	Orders       int
	ProductsSold int
	Customers    map[string]struct{}
}

// MonthlyStats é o acumulador em memória de um par (loja, mês). É
// reconstruído a cada execução do rollup e descartado ao final; o conjunto
// de clientes do mês é a união dos conjuntos semanais por construção.
type MonthlyStats struct {
	StoreID      string
	Month        string // formato YYYY-MM
	Revenue      float64
	Orders       int
	ProductsSold int
	Weekly       map[int]*WeeklyStats
	Customers    map[string]struct{}
}

func NewMonthlyStats(storeID, month string) *MonthlyStats {
	return &MonthlyStats{
		StoreID:   storeID,
		Month:     month,
		Weekly:    make(map[int]*WeeklyStats),
		Customers: make(map[string]struct{}),
	}
}

// Week devolve o acumulador da semana, criando-o se necessário
func (m *MonthlyStats) Week(week int) *WeeklyStats {
	w, ok := m.Weekly[week]
	if !ok {
		w = &WeeklyStats{Customers: make(map[string]struct{})}
		m.Weekly[week] = w
	}
	return w
}

// Add acumula um pedido nos totais do mês e da semana informada
func (m *MonthlyStats) Add(week int, userID string, price float64, units int) {
	m.Revenue += price
	m.Orders++
	m.ProductsSold += units
	m.Customers[userID] = struct{}{}

	w := m.Week(week)
	w.Revenue += price
	w.Orders++
	w.ProductsSold += units
	w.Customers[userID] = struct{}{}
}
