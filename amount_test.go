package ofxparse_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/rockstardevs/ofxparse"
)

var _ = Describe("ofxparse", func() {
	Describe("ParseAmount()", func() {
		Context("when given a decimal number", func() {
			DescribeTable("should keep the source precision.", func(input, expected string, exponent int32) {
				got, err := ofxparse.ParseAmount(input)
				Expect(err).To(BeNil())
				Expect(got.Equal(decimal.RequireFromString(expected))).To(BeTrue())
				Expect(got.Exponent()).To(Equal(exponent))
			},
				Entry("negative", "-6.60", "-6.60", int32(-2)),
				Entry("explicit plus sign", "+1500.00", "1500.00", int32(-2)),
				Entry("integer", "20", "20", int32(0)),
				Entry("leading point", ".5", "0.5", int32(-1)),
				Entry("surrounding space", " 382.34 ", "382.34", int32(-2)),
				Entry("many places", "0.0000001", "0.0000001", int32(-7)),
			)
		})
		Context("when given anything else", func() {
			DescribeTable("should return an AmountFormatError.", func(input string) {
				_, err := ofxparse.ParseAmount(input)
				var amountErr *ofxparse.AmountFormatError
				Expect(errors.As(err, &amountErr)).To(BeTrue())
				Expect(err).To(MatchError(`error - amount "` + input + `" is not a decimal number`))
			},
				Entry("currency symbol", "$20"),
				Entry("thousands separator", "1,000.00"),
				Entry("empty", ""),
				Entry("text", "abc"),
				Entry("two points", "1.2.3"),
				Entry("two signs", "--1"),
				Entry("exponent", "1e5"),
			)
		})
	})
})
