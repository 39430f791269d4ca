package domain

// Category is one of the fixed bookkeeping categories offered by the
// transaction form. The set matches the categories small Indonesian
// businesses record in a cash book.
type Category string

const (
	CategoryModalAwal          Category = "Modal Awal / Setoran Pemilik"
	CategoryPenjualanTunai     Category = "Penjualan Tunai"
	CategoryPiutang            Category = "Piutang"
	CategoryPenerimaanPinjaman Category = "Penerimaan Pinjaman / Utang Baru"
	CategoryPendapatanJasa     Category = "Pendapatan Jasa Lain-lain"
	CategoryPembelianBarang    Category = "Pembelian Barang / Belanja"
	CategoryGaji               Category = "Gaji"
	CategoryOperasional        Category = "Operasional"
	CategoryPembelianAset      Category = "Pembelian Aset"
	CategoryPembayaranUtang    Category = "Pembayaran Utang"
	CategoryPengambilanPemilik Category = "Pengambilan Pemilik"
)

// conventionalKinds maps each category to the kind the form pre-selects.
// This is a defaulting hint, not a constraint: a stored transaction may
// carry a kind that disagrees with its category.
var conventionalKinds = map[Category]Kind{
	CategoryModalAwal:          KindDebit,
	CategoryPenjualanTunai:     KindDebit,
	CategoryPiutang:            KindDebit,
	CategoryPenerimaanPinjaman: KindDebit,
	CategoryPendapatanJasa:     KindDebit,
	CategoryPembelianBarang:    KindCredit,
	CategoryGaji:               KindCredit,
	CategoryOperasional:        KindCredit,
	CategoryPembelianAset:      KindCredit,
	CategoryPembayaranUtang:    KindCredit,
	CategoryPengambilanPemilik: KindCredit,
}

// categoryOrder preserves the order categories are presented in.
var categoryOrder = []Category{
	CategoryModalAwal,
	CategoryPenjualanTunai,
	CategoryPiutang,
	CategoryPenerimaanPinjaman,
	CategoryPendapatanJasa,
	CategoryPembelianBarang,
	CategoryGaji,
	CategoryOperasional,
	CategoryPembelianAset,
	CategoryPembayaranUtang,
	CategoryPengambilanPemilik,
}

// IsValid checks if the category is part of the fixed set.
func (c Category) IsValid() bool {
	_, ok := conventionalKinds[c]
	return ok
}

// ConventionalKind returns the kind the transaction form defaults to for
// this category, and false for an unknown category.
func (c Category) ConventionalKind() (Kind, bool) {
	k, ok := conventionalKinds[c]
	return k, ok
}

// Categories returns all categories in presentation order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}
