package rewrite

// brandingBlock goes right after the page's header container.
const brandingBlock = `<TABLE WIDTH="100%" BORDER=0 CELLPADDING=0 CELLSPACING=0>
 <TR>
  <TD WIDTH="100%">
   <TABLE WIDTH="100%" BORDER=0 CELLPADDING=0 CELLSPACING=0>
    <TR>
     <TD WIDTH="20%" VALIGN="center" ALIGN="left">
      <A HREF="http://www.informatics.jax.org/" border=0><IMG SRC="http://www.informatics.jax.org/webshare/images/mgi_logo.jpg" BORDER=0 HEIGHT="70" WIDTH="160" ALT="Mouse Genome Informatics"></A>
     </TD>
     <TD WIDTH="60%" ALIGN="center" VALIGN="center" BGCOLOR="#ffffff">
      <FONT COLOR="#000000" SIZE=5 FACE="Arial,Helvetica">
       Schema Browser
      </FONT>
     </TD>
     <TD WIDTH="20%" VALIGN="center" ALIGN="center" BGCOLOR="#ffffff">
      &nbsp;
     </TD>
    </TR>
    <TR>
     <TD COLSPAN=3 style="background-color:#0000ff;">
      <FONT face="Arial,Helvetica" color="#ffffff">
       <B>&nbsp;Mouse Genome Informatics</B>
      </FONT>
     </TD>
    </TR>
    <TR>
     <TD>
      <FONT SIZE=-1 FACE="Arial,Helvetica">
       <CENTER>
        <A HREF="http://www.informatics.jax.org/" vlink="#0000ff">MGI Home</A>&nbsp;&nbsp;&nbsp;
        <a href="http://www.informatics.jax.org/mgihome/help/help.shtml" vlink="#0000ff">Help</A>
       </CENTER>
      </FONT>
     </TD>
    </TR>
   </TABLE>
  </TD>
 </TR>
 <TR><TD>&nbsp;</TD></TR>
</TABLE>
`

// Branding returns the block inserted after the header container.
func Branding() string {
	return brandingBlock
}
