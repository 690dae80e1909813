// qxalign realigns FASTQ reads against a reference window using the
// quality-aware affine-gap engine and reports one TSV row per read.
//
// Example:
//
//	qxalign -ref ref.fa -reads reads.fastq.gz -out alignments.tsv
//
// Reads are aligned semi-globally (free reference end gaps) unless
// -global is set. The reference window can be restricted with
// -ref-start/-ref-end; query head/tail clips given with -clip-head and
// -clip-tail are reported as soft clips in the output CIGAR.
package main

import (
	"context"
	"flag"
	"io"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/escherba/qxalign/align"
	"github.com/escherba/qxalign/encoding/fasta"
	"github.com/escherba/qxalign/encoding/fastq"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

type alignFlags struct {
	refPath   string
	readsPath string
	outPath   string

	refName          string
	refStart, refEnd int

	global        bool
	softClipTails bool
	compact       bool

	clipHead, clipTail int
	parallelism        int
}

type alignRow struct {
	name  string
	pos   int
	score int
	cigar string
}

func openInput(ctx context.Context, path string) (io.Reader, func(), error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	var r io.Reader = in.Reader(ctx)
	closers := []func() error{func() error { return in.Close(ctx) }}
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			_ = in.Close(ctx)
			return nil, nil, errors.E(err, "gzip open", path)
		}
		r = gz
		closers = append(closers, gz.Close)
	}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Panicf("close %v: %v", path, err)
			}
		}
	}
	return r, cleanup, nil
}

func readReference(ctx context.Context, flags alignFlags) []byte {
	r, cleanup, err := openInput(ctx, flags.refPath)
	if err != nil {
		log.Fatalf("open %v: %v", flags.refPath, err)
	}
	defer cleanup()
	f, err := fasta.New(r)
	if err != nil {
		log.Fatalf("read %v: %v", flags.refPath, err)
	}
	name := flags.refName
	if name == "" {
		name = f.SeqNames()[0]
	}
	seq, err := f.Seq(name)
	if err != nil {
		log.Fatalf("%v: %v", flags.refPath, err)
	}
	return seq
}

func readQueries(ctx context.Context, flags alignFlags) []fastq.Read {
	r, cleanup, err := openInput(ctx, flags.readsPath)
	if err != nil {
		log.Fatalf("open %v: %v", flags.readsPath, err)
	}
	defer cleanup()
	sc := fastq.NewScanner(r, fastq.ID|fastq.Seq|fastq.Qual)
	var reads []fastq.Read
	var read fastq.Read
	for sc.Scan(&read) {
		reads = append(reads, read)
	}
	if err := sc.Err(); err != nil {
		log.Fatalf("read %v: %v", flags.readsPath, err)
	}
	return reads
}

func alignReads(ref []byte, reads []fastq.Read, opts align.Opts, flags alignFlags) ([]alignRow, error) {
	rows := make([]alignRow, len(reads))
	refClipHead := flags.refStart
	refClipTail := len(ref) - flags.refEnd

	var surplusQuals int64
	err := traverse.Each(flags.parallelism, func(shard int) error {
		a, err := align.NewAligner(opts)
		if err != nil {
			return err
		}
		if err := a.PrepareRef(ref, refClipHead, refClipTail); err != nil {
			return errors.E(err, "reference", flags.refPath)
		}
		for i := shard; i < len(reads); i += flags.parallelism {
			rd := &reads[i]
			surplus, err := rd.Validate()
			if err != nil {
				return errors.E(err, "read", rd.ID)
			}
			if surplus > 0 {
				atomic.AddInt64(&surplusQuals, 1)
			}
			var qual []byte
			if rd.Qual != "" {
				qual = gunsafe.StringToBytes(rd.Qual)
			}
			if err := a.PrepareQuery(gunsafe.StringToBytes(rd.Seq), qual, flags.clipHead, flags.clipTail); err != nil {
				return errors.E(err, "read", rd.ID)
			}
			if flags.global {
				a.InitGlobal()
			} else {
				a.InitSemiGlobal()
			}
			if err := a.Align(); err != nil {
				return errors.E(err, "read", rd.ID)
			}
			a.LocateMin()
			if err := a.Trace(); err != nil {
				return errors.E(err, "read", rd.ID)
			}
			a.AppendSoftClip()
			if flags.softClipTails {
				a.SoftClipTrace()
			}
			if flags.compact {
				a.CompactTrace()
			}
			rows[i] = alignRow{
				name:  rd.ID,
				pos:   a.AlignmentStart(0) + 1, // 1-based, as in SAM text
				score: a.Score(),
				cigar: a.CigarString(),
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if surplusQuals > 0 {
		log.Error.Printf("%d reads had quality strings longer than their sequences", surplusQuals)
	}
	return rows, nil
}

func writeRows(ctx context.Context, path string, rows []alignRow) {
	out, err := file.Create(ctx, path)
	if err != nil {
		log.Fatalf("create %v: %v", path, err)
	}
	w := tsv.NewWriter(out.Writer(ctx))
	er := errors.Once{}
	w.WriteString("name")
	w.WriteString("pos")
	w.WriteString("score")
	w.WriteString("cigar")
	er.Set(w.EndLine())
	for _, row := range rows {
		w.WriteString(row.name)
		w.WriteUint32(uint32(row.pos))
		w.WriteString(strconv.Itoa(row.score))
		w.WriteString(row.cigar)
		er.Set(w.EndLine())
	}
	er.Set(w.Flush())
	er.Set(out.Close(ctx))
	if er.Err() != nil {
		log.Fatalf("write %v: %v", path, er.Err())
	}
}

func main() {
	opts := align.DefaultOpts
	flags := alignFlags{}
	flag.StringVar(&flags.refPath, "ref", "", "FASTA file holding the reference sequence.")
	flag.StringVar(&flags.readsPath, "reads", "", "FASTQ file holding the reads; .gz accepted.")
	flag.StringVar(&flags.outPath, "out", "./alignments.tsv", "Output TSV path.")
	flag.StringVar(&flags.refName, "ref-name", "", "Reference sequence name; default is the first sequence in the FASTA.")
	flag.IntVar(&flags.refStart, "ref-start", 0, "Start of the reference window (0-based).")
	flag.IntVar(&flags.refEnd, "ref-end", -1, "End of the reference window (exclusive); default is the sequence end.")
	flag.BoolVar(&flags.global, "global", false, "Charge the leading reference gap instead of aligning semi-globally.")
	flag.BoolVar(&flags.softClipTails, "soft-clip-tails", true, "Convert non-matching edits at the alignment ends into soft clips.")
	flag.BoolVar(&flags.compact, "compact", false, "Fuse sequence match/mismatch runs into plain M runs.")
	flag.IntVar(&flags.clipHead, "clip-head", 0, "Query bases to clip from the head before aligning.")
	flag.IntVar(&flags.clipTail, "clip-tail", 0, "Query bases to clip from the tail before aligning.")
	flag.IntVar(&flags.parallelism, "parallelism", runtime.NumCPU(), "Number of concurrent aligners.")
	flag.IntVar(&opts.Match, "match", align.DefaultOpts.Match, "Base match penalty; negative values reward matches.")
	flag.IntVar(&opts.Mismatch, "mismatch", align.DefaultOpts.Mismatch, "Base mismatch penalty.")
	flag.IntVar(&opts.GapOpenExtend, "gap-open-extend", align.DefaultOpts.GapOpenExtend, "Combined gap open and first-extension penalty.")
	flag.IntVar(&opts.GapExtend, "gap-extend", align.DefaultOpts.GapExtend, "Per-base gap extension penalty.")
	flag.IntVar(&opts.PhredOffset, "phred-offset", align.DefaultOpts.PhredOffset, "ASCII offset of the quality encoding.")
	flag.IntVar(&opts.AssumePhred, "assume-phred", align.DefaultOpts.AssumePhred, "Quality assumed for reads without quality strings.")

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	if flags.refPath == "" || flags.readsPath == "" {
		log.Fatal("both -ref and -reads are required")
	}
	if flags.parallelism < 1 {
		log.Fatal("-parallelism must be at least 1")
	}

	ref := readReference(ctx, flags)
	if flags.refEnd < 0 || flags.refEnd > len(ref) {
		flags.refEnd = len(ref)
	}
	if flags.refStart < 0 || flags.refStart > flags.refEnd {
		log.Fatalf("invalid reference window [%d, %d)", flags.refStart, flags.refEnd)
	}
	reads := readQueries(ctx, flags)
	log.Printf("aligning %d reads against %s[%d:%d]", len(reads), flags.refPath, flags.refStart, flags.refEnd)

	rows, err := alignReads(ref, reads, opts, flags)
	if err != nil {
		log.Fatalf("align: %v", err)
	}
	writeRows(ctx, flags.outPath, rows)
	log.Printf("wrote %d alignments to %s", len(rows), flags.outPath)
}
