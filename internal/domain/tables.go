package domain

var Tables = []interface{}{
	// System
	&SysOpr{},
	&SysOprLog{},
	// Content
	&Product{},
	&Blog{},
	&Banner{},
	&Testimonial{},
}
